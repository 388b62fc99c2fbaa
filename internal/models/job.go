package models

import (
	"encoding/json"
	"time"
)

type JobType string

const (
	JobTypeGenerateSitemap   JobType = "GenerateSitemap"
	JobTypeCleanupTempFiles  JobType = "CleanupTempFiles"
	JobTypeUpdateSearchIndex JobType = "UpdateSearchIndex"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "Pending"
	JobStatusRunning   JobStatus = "Running"
	JobStatusCompleted JobStatus = "Completed"
	JobStatusFailed    JobStatus = "Failed"
	JobStatusCancelled JobStatus = "Cancelled"
)

type JobScheduleType string

const (
	JobScheduleRunOnce   JobScheduleType = "RunOnce"
	JobScheduleRecurring JobScheduleType = "Recurring"
)

// Job is one schedulable unit of work. NextRun is only meaningful while the
// job is enabled and Pending; Running is the one status that blocks manual
// start and cancel.
type Job struct {
	BaseEntity
	Name           string          `gorm:"size:255;not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Type           JobType         `gorm:"size:50;not null;index" json:"type"`
	Status         JobStatus       `gorm:"size:20;not null;index" json:"status"`
	ScheduleType   JobScheduleType `gorm:"size:20;not null" json:"schedule_type"`
	CronExpression *string         `gorm:"size:100" json:"cron_expression,omitempty"`
	LastRun        *time.Time      `json:"last_run,omitempty"`
	NextRun        *time.Time      `gorm:"index" json:"next_run,omitempty"`
	IsEnabled      bool            `gorm:"default:true" json:"is_enabled"`
	ErrorMessage   *string         `gorm:"type:text" json:"error_message,omitempty"`

	// Parameters is a free-form string map serialized as JSON; handlers use
	// it to record run statistics.
	Parameters string `gorm:"type:text;not null;default:'{}'" json:"-"`
}

// GetParameters decodes the parameter map, never returning nil.
func (j *Job) GetParameters() map[string]string {
	params := map[string]string{}
	if j.Parameters != "" {
		_ = json.Unmarshal([]byte(j.Parameters), &params)
	}
	return params
}

// SetParameters encodes and stores the parameter map.
func (j *Job) SetParameters(params map[string]string) error {
	if params == nil {
		params = map[string]string{}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	j.Parameters = string(raw)
	return nil
}
