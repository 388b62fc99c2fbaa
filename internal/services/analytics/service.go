// Package analytics ingests page views and web-vitals metrics and aggregates
// them into simple reports.
package analytics

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/DLXHub/API/internal/apperrors"
	"github.com/DLXHub/API/internal/models"
)

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// PageViewInput is one recorded page view.
type PageViewInput struct {
	Path        string  `json:"path"`
	ReferrerURL *string `json:"referrer_url"`
	UserAgent   *string `json:"user_agent"`
	IPAddress   *string `json:"ip_address"`
	SessionID   *string `json:"session_id"`
	UserID      *string `json:"user_id"`
	DurationMs  *int64  `json:"duration_ms"`
}

func (s *Service) RecordPageView(ctx context.Context, input PageViewInput) (*models.PageView, error) {
	if strings.TrimSpace(input.Path) == "" {
		return nil, apperrors.NewValidation("path is required")
	}

	view := models.PageView{
		Path:        input.Path,
		ReferrerURL: input.ReferrerURL,
		UserAgent:   input.UserAgent,
		IPAddress:   input.IPAddress,
		SessionID:   input.SessionID,
		UserID:      input.UserID,
		DurationMs:  input.DurationMs,
	}
	if err := s.db.WithContext(ctx).Create(&view).Error; err != nil {
		return nil, err
	}
	return &view, nil
}

// MetricInput is one recorded performance sample.
type MetricInput struct {
	Path                   string  `json:"path"`
	LoadTime               float64 `json:"load_time"`
	FirstContentfulPaint   float64 `json:"first_contentful_paint"`
	LargestContentfulPaint float64 `json:"largest_contentful_paint"`
	FirstInputDelay        float64 `json:"first_input_delay"`
	CumulativeLayoutShift  float64 `json:"cumulative_layout_shift"`
	UserAgent              *string `json:"user_agent"`
	DeviceType             *string `json:"device_type"`
}

func (s *Service) RecordMetric(ctx context.Context, input MetricInput) (*models.PerformanceMetric, error) {
	if strings.TrimSpace(input.Path) == "" {
		return nil, apperrors.NewValidation("path is required")
	}

	metric := models.PerformanceMetric{
		Path:                   input.Path,
		LoadTime:               input.LoadTime,
		FirstContentfulPaint:   input.FirstContentfulPaint,
		LargestContentfulPaint: input.LargestContentfulPaint,
		FirstInputDelay:        input.FirstInputDelay,
		CumulativeLayoutShift:  input.CumulativeLayoutShift,
		UserAgent:              input.UserAgent,
		DeviceType:             input.DeviceType,
	}
	if err := s.db.WithContext(ctx).Create(&metric).Error; err != nil {
		return nil, err
	}
	return &metric, nil
}

// PathCount is one row of the top-pages report.
type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// TopPages reports the most viewed paths since the cutoff.
func (s *Service) TopPages(ctx context.Context, since time.Time, limit int) ([]PathCount, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	var rows []PathCount
	err := s.db.WithContext(ctx).Model(&models.PageView{}).
		Select("path, COUNT(*) AS count").
		Where("created_on >= ? AND is_deleted = ?", since, false).
		Group("path").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// TrafficSummary aggregates views and visitors over a window.
type TrafficSummary struct {
	TotalViews     int64    `json:"total_views"`
	UniqueSessions int64    `json:"unique_sessions"`
	AvgDurationMs  *float64 `json:"avg_duration_ms"`
}

func (s *Service) Summary(ctx context.Context, since time.Time) (*TrafficSummary, error) {
	var summary TrafficSummary
	err := s.db.WithContext(ctx).Model(&models.PageView{}).
		Select("COUNT(*) AS total_views, COUNT(DISTINCT session_id) AS unique_sessions, AVG(duration_ms) AS avg_duration_ms").
		Where("created_on >= ? AND is_deleted = ?", since, false).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// VitalsReport averages the collected web vitals per path.
type VitalsReport struct {
	Path        string  `json:"path"`
	Samples     int64   `json:"samples"`
	AvgLoadTime float64 `json:"avg_load_time"`
	AvgLCP      float64 `json:"avg_lcp"`
	AvgCLS      float64 `json:"avg_cls"`
}

func (s *Service) Vitals(ctx context.Context, since time.Time) ([]VitalsReport, error) {
	var rows []VitalsReport
	err := s.db.WithContext(ctx).Model(&models.PerformanceMetric{}).
		Select("path, COUNT(*) AS samples, AVG(load_time) AS avg_load_time, AVG(largest_contentful_paint) AS avg_lcp, AVG(cumulative_layout_shift) AS avg_cls").
		Where("created_on >= ? AND is_deleted = ?", since, false).
		Group("path").
		Order("samples DESC").
		Scan(&rows).Error
	return rows, err
}
