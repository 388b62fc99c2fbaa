package models

// PageView records one visit to a path.
type PageView struct {
	BaseEntity
	Path        string  `gorm:"size:500;index;not null" json:"path"`
	ReferrerURL *string `gorm:"size:500" json:"referrer_url,omitempty"`
	UserAgent   *string `gorm:"size:500" json:"user_agent,omitempty"`
	IPAddress   *string `gorm:"size:45" json:"ip_address,omitempty"`
	SessionID   *string `gorm:"size:100;index" json:"session_id,omitempty"`
	UserID      *string `gorm:"size:36;index" json:"user_id,omitempty"`
	// DurationMs is how long the visitor stayed on the path, when reported.
	DurationMs *int64 `json:"duration_ms,omitempty"`
}

// PerformanceMetric records one client-side load measurement for a path.
type PerformanceMetric struct {
	BaseEntity
	Path                   string  `gorm:"size:500;index;not null" json:"path"`
	LoadTime               float64 `json:"load_time"`
	FirstContentfulPaint   float64 `json:"first_contentful_paint"`
	LargestContentfulPaint float64 `json:"largest_contentful_paint"`
	FirstInputDelay        float64 `json:"first_input_delay"`
	CumulativeLayoutShift  float64 `json:"cumulative_layout_shift"`
	UserAgent              *string `gorm:"size:500" json:"user_agent,omitempty"`
	DeviceType             *string `gorm:"size:50" json:"device_type,omitempty"`
}
