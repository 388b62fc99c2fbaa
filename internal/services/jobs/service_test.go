package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/database"
	"github.com/DLXHub/API/internal/models"
)

type fakeHandler struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeHandler) Execute(_ context.Context, _ *models.Job) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.err
}

func (f *fakeHandler) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingSink struct {
	events []Event
}

func (r *recordingSink) PublishJobEvent(e Event) {
	r.events = append(r.events, e)
}

func newTestService(t *testing.T, handlers HandlerMap) (*Service, *recordingSink) {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Job{}))

	sink := &recordingSink{}
	return New(db, handlers, sink, zerolog.Nop()), sink
}

func TestCreateImmediateJobIsPending(t *testing.T) {
	svc, _ := newTestService(t, HandlerMap{models.JobTypeGenerateSitemap: &fakeHandler{}})

	job, err := svc.Create(context.Background(), CreateJobInput{
		Name:             "sitemap",
		Type:             models.JobTypeGenerateSitemap,
		ScheduleType:     models.JobScheduleRunOnce,
		StartImmediately: true,
	})
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusPending, job.Status)
	require.NotNil(t, job.NextRun)
}

func TestCreateDeferredJobParksCancelled(t *testing.T) {
	svc, _ := newTestService(t, HandlerMap{models.JobTypeGenerateSitemap: &fakeHandler{}})

	job, err := svc.Create(context.Background(), CreateJobInput{
		Name:         "sitemap",
		Type:         models.JobTypeGenerateSitemap,
		ScheduleType: models.JobScheduleRunOnce,
	})
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusCancelled, job.Status)
	assert.Nil(t, job.NextRun)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t, HandlerMap{})

	_, err := svc.Create(context.Background(), CreateJobInput{
		Name:         "mystery",
		Type:         models.JobType("Mystery"),
		ScheduleType: models.JobScheduleRunOnce,
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateRecurringComputesNextRun(t *testing.T) {
	svc, _ := newTestService(t, HandlerMap{models.JobTypeGenerateSitemap: &fakeHandler{}})

	expr := "0 3 * * *"
	job, err := svc.Create(context.Background(), CreateJobInput{
		Name:           "nightly sitemap",
		Type:           models.JobTypeGenerateSitemap,
		ScheduleType:   models.JobScheduleRecurring,
		CronExpression: &expr,
	})
	require.NoError(t, err)

	require.NotNil(t, job.NextRun)
	assert.True(t, job.NextRun.After(time.Now().UTC().Add(-time.Minute)))
}

func TestCreateBadCronLeavesNextRunNil(t *testing.T) {
	svc, _ := newTestService(t, HandlerMap{models.JobTypeGenerateSitemap: &fakeHandler{}})

	expr := "not a cron line"
	job, err := svc.Create(context.Background(), CreateJobInput{
		Name:           "broken",
		Type:           models.JobTypeGenerateSitemap,
		ScheduleType:   models.JobScheduleRecurring,
		CronExpression: &expr,
	})
	require.NoError(t, err)
	assert.Nil(t, job.NextRun)
}

func TestStartAndCancelGuardRunning(t *testing.T) {
	svc, _ := newTestService(t, HandlerMap{models.JobTypeGenerateSitemap: &fakeHandler{}})
	ctx := context.Background()

	job, err := svc.Create(ctx, CreateJobInput{
		Name:         "sitemap",
		Type:         models.JobTypeGenerateSitemap,
		ScheduleType: models.JobScheduleRunOnce,
	})
	require.NoError(t, err)

	job.Status = models.JobStatusRunning
	require.NoError(t, svc.db.Save(job).Error)

	_, err = svc.Start(ctx, job.ID)
	assert.True(t, apperrors.IsInvalidState(err))
	_, err = svc.Cancel(ctx, job.ID)
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestStartQueuesCancelledJob(t *testing.T) {
	svc, _ := newTestService(t, HandlerMap{models.JobTypeGenerateSitemap: &fakeHandler{}})
	ctx := context.Background()

	job, err := svc.Create(ctx, CreateJobInput{
		Name:         "sitemap",
		Type:         models.JobTypeGenerateSitemap,
		ScheduleType: models.JobScheduleRunOnce,
	})
	require.NoError(t, err)

	started, err := svc.Start(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, started.Status)
	require.NotNil(t, started.NextRun)
}

func TestProcessRunsDueRunOnceJob(t *testing.T) {
	handler := &fakeHandler{}
	svc, sink := newTestService(t, HandlerMap{models.JobTypeGenerateSitemap: handler})
	ctx := context.Background()

	job, err := svc.Create(ctx, CreateJobInput{
		Name:             "sitemap",
		Type:             models.JobTypeGenerateSitemap,
		ScheduleType:     models.JobScheduleRunOnce,
		StartImmediately: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ProcessScheduledJobs(ctx))

	assert.Equal(t, 1, handler.callCount())

	done, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, done.Status)
	require.NotNil(t, done.LastRun)

	// Running then Completed events were published.
	require.Len(t, sink.events, 2)
	assert.Equal(t, models.JobStatusRunning, sink.events[0].Status)
	assert.Equal(t, models.JobStatusCompleted, sink.events[1].Status)

	// A second tick does not rerun it.
	require.NoError(t, svc.ProcessScheduledJobs(ctx))
	assert.Equal(t, 1, handler.callCount())
}

func TestProcessReschedulesRecurringJob(t *testing.T) {
	handler := &fakeHandler{}
	svc, _ := newTestService(t, HandlerMap{models.JobTypeGenerateSitemap: handler})
	ctx := context.Background()

	expr := "*/5 * * * *"
	job, err := svc.Create(ctx, CreateJobInput{
		Name:           "recurring sitemap",
		Type:           models.JobTypeGenerateSitemap,
		ScheduleType:   models.JobScheduleRecurring,
		CronExpression: &expr,
	})
	require.NoError(t, err)

	// Force the job due.
	past := time.Now().UTC().Add(-time.Minute)
	job.Status = models.JobStatusPending
	job.NextRun = &past
	require.NoError(t, svc.db.Save(job).Error)

	require.NoError(t, svc.ProcessScheduledJobs(ctx))

	rescheduled, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, handler.callCount())
	assert.Equal(t, models.JobStatusPending, rescheduled.Status)
	require.NotNil(t, rescheduled.NextRun)
	assert.True(t, rescheduled.NextRun.After(time.Now().UTC()))
}

func TestProcessRecordsFailureAndContinues(t *testing.T) {
	failing := &fakeHandler{err: errors.New("boom")}
	ok := &fakeHandler{}
	svc, _ := newTestService(t, HandlerMap{
		models.JobTypeGenerateSitemap:  failing,
		models.JobTypeCleanupTempFiles: ok,
	})
	ctx := context.Background()

	bad, err := svc.Create(ctx, CreateJobInput{
		Name:             "bad",
		Type:             models.JobTypeGenerateSitemap,
		ScheduleType:     models.JobScheduleRunOnce,
		StartImmediately: true,
	})
	require.NoError(t, err)
	good, err := svc.Create(ctx, CreateJobInput{
		Name:             "good",
		Type:             models.JobTypeCleanupTempFiles,
		ScheduleType:     models.JobScheduleRunOnce,
		StartImmediately: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ProcessScheduledJobs(ctx))

	failed, err := svc.Get(ctx, bad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, failed.Status)
	require.NotNil(t, failed.ErrorMessage)
	assert.Equal(t, "boom", *failed.ErrorMessage)

	// The failure did not abort the tick.
	assert.Equal(t, 1, ok.callCount())
	completed, err := svc.Get(ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, completed.Status)
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := newTestService(t, HandlerMap{models.JobTypeGenerateSitemap: &fakeHandler{}})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateJobInput{
		Name: "a", Type: models.JobTypeGenerateSitemap,
		ScheduleType: models.JobScheduleRunOnce, StartImmediately: true,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateJobInput{
		Name: "b", Type: models.JobTypeGenerateSitemap,
		ScheduleType: models.JobScheduleRunOnce,
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending := models.JobStatusPending
	filtered, err := svc.List(ctx, &pending)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].Name)
}
