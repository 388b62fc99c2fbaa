// Package jobs implements persisted background jobs: CRUD with manual
// start/cancel, and a polling runner that executes due jobs through a fixed
// type-to-handler map.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/models"
)

// Handler executes one job type. Handlers may mutate the job's parameter map
// to record run statistics; a returned error marks the run as failed.
type Handler interface {
	Execute(ctx context.Context, job *models.Job) error
}

// HandlerMap binds job types to their handlers. It is built once at process
// start and passed in, so handler resolution stays a plain map lookup.
type HandlerMap map[models.JobType]Handler

// Event describes one job lifecycle transition, published to subscribers of
// the job event feed.
type Event struct {
	JobID  string           `json:"job_id"`
	Name   string           `json:"name"`
	Type   models.JobType   `json:"type"`
	Status models.JobStatus `json:"status"`
	Error  string           `json:"error,omitempty"`
	At     time.Time        `json:"at"`
}

// EventSink receives job lifecycle events. May be nil.
type EventSink interface {
	PublishJobEvent(Event)
}

// cronParser accepts standard five-field expressions plus an optional leading
// seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Service struct {
	db       *gorm.DB
	handlers HandlerMap
	events   EventSink
	log      zerolog.Logger
	now      func() time.Time
}

func New(db *gorm.DB, handlers HandlerMap, events EventSink, log zerolog.Logger) *Service {
	return &Service{
		db:       db,
		handlers: handlers,
		events:   events,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateJobInput is the payload for job creation.
type CreateJobInput struct {
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	Type             models.JobType         `json:"type"`
	ScheduleType     models.JobScheduleType `json:"schedule_type"`
	CronExpression   *string                `json:"cron_expression"`
	Parameters       map[string]string      `json:"parameters"`
	StartImmediately bool                   `json:"start_immediately"`
}

// Create persists a new job. Jobs not started immediately park in Cancelled
// until manually started. NextRun comes from the cron expression for
// recurring jobs, or "now" for immediate one-shots.
func (s *Service) Create(ctx context.Context, input CreateJobInput) (*models.Job, error) {
	var messages []string
	if input.Name == "" {
		messages = append(messages, "name is required")
	}
	if _, ok := s.handlers[input.Type]; !ok {
		messages = append(messages, fmt.Sprintf("unknown job type: %s", input.Type))
	}
	if input.ScheduleType != models.JobScheduleRunOnce && input.ScheduleType != models.JobScheduleRecurring {
		messages = append(messages, fmt.Sprintf("unknown schedule type: %s", input.ScheduleType))
	}
	if len(messages) > 0 {
		return nil, apperrors.NewValidation(messages...)
	}

	status := models.JobStatusCancelled
	if input.StartImmediately {
		status = models.JobStatusPending
	}

	job := models.Job{
		Name:           input.Name,
		Description:    input.Description,
		Type:           input.Type,
		Status:         status,
		ScheduleType:   input.ScheduleType,
		CronExpression: input.CronExpression,
		IsEnabled:      true,
	}
	if err := job.SetParameters(input.Parameters); err != nil {
		return nil, err
	}

	if input.ScheduleType == models.JobScheduleRecurring && input.CronExpression != nil && *input.CronExpression != "" {
		job.NextRun = s.nextRunTime(*input.CronExpression)
	} else if input.StartImmediately {
		now := s.now()
		job.NextRun = &now
	}

	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Get returns a job by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Job, error) {
	return s.load(ctx, id)
}

// List returns jobs newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status *models.JobStatus) ([]models.Job, error) {
	tx := s.db.WithContext(ctx).Scopes(models.NotDeleted)
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}

	var jobs []models.Job
	if err := tx.Order("created_on DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Start queues a job for the next poll. A running job cannot be started.
func (s *Service) Start(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusRunning {
		return nil, apperrors.NewInvalidState("job is already running")
	}

	now := s.now()
	job.Status = models.JobStatusPending
	job.NextRun = &now
	if err := s.db.WithContext(ctx).Save(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// Cancel takes a job out of the schedule. A running job cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusRunning {
		return nil, apperrors.NewInvalidState("cannot cancel a running job")
	}

	job.Status = models.JobStatusCancelled
	job.NextRun = nil
	if err := s.db.WithContext(ctx).Save(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// ProcessScheduledJobs runs one poll tick: every enabled Pending job whose
// NextRun has passed is executed, one at a time. A job failure is recorded on
// that job and never aborts the tick. Assumes a single runner process; no
// cross-instance claim is taken before flipping a job to Running.
func (s *Service) ProcessScheduledJobs(ctx context.Context) error {
	var due []models.Job
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).
		Where("status = ? AND is_enabled = ? AND next_run <= ?", models.JobStatusPending, true, s.now()).
		Order("next_run").
		Find(&due).Error
	if err != nil {
		return err
	}

	for i := range due {
		s.runJob(ctx, &due[i])
	}
	return nil
}

func (s *Service) runJob(ctx context.Context, job *models.Job) {
	started := s.now()
	job.Status = models.JobStatusRunning
	job.LastRun = &started
	if err := s.db.WithContext(ctx).Save(job).Error; err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to mark job running")
		return
	}
	s.publish(job, "")

	execErr := s.execute(ctx, job)

	if execErr != nil {
		msg := execErr.Error()
		job.Status = models.JobStatusFailed
		job.ErrorMessage = &msg
		s.log.Error().Err(execErr).Str("job_id", job.ID).Str("job_name", job.Name).Msg("job failed")
	} else {
		job.Status = models.JobStatusCompleted
		job.ErrorMessage = nil
		if job.ScheduleType == models.JobScheduleRecurring && job.CronExpression != nil && *job.CronExpression != "" {
			job.NextRun = s.nextRunTime(*job.CronExpression)
			job.Status = models.JobStatusPending
		}
	}

	if err := s.db.WithContext(ctx).Save(job).Error; err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to persist job result")
		return
	}
	errMsg := ""
	if job.ErrorMessage != nil {
		errMsg = *job.ErrorMessage
	}
	s.publish(job, errMsg)
}

func (s *Service) execute(ctx context.Context, job *models.Job) error {
	handler, ok := s.handlers[job.Type]
	if !ok {
		return fmt.Errorf("no handler registered for job type %s", job.Type)
	}
	return handler.Execute(ctx, job)
}

// nextRunTime computes the next occurrence after now. A malformed expression
// is logged and yields nil, which parks the job until manually restarted.
func (s *Service) nextRunTime(expression string) *time.Time {
	schedule, err := cronParser.Parse(expression)
	if err != nil {
		s.log.Error().Err(err).Str("cron", expression).Msg("failed to parse cron expression")
		return nil
	}
	next := schedule.Next(s.now())
	return &next
}

func (s *Service) publish(job *models.Job, errMsg string) {
	if s.events == nil {
		return
	}
	s.events.PublishJobEvent(Event{
		JobID:  job.ID,
		Name:   job.Name,
		Type:   job.Type,
		Status: job.Status,
		Error:  errMsg,
		At:     s.now(),
	})
}

func (s *Service) load(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := s.db.WithContext(ctx).Scopes(models.NotDeleted).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("job", id)
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}
