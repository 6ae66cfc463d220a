package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivitySegment is a closed, contiguous time interval during which the
// tracked label (window title or a sentinel) did not change. Immutable once
// emitted by the segmenter.
type ActivitySegment struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Application       string         `gorm:"not null;index" json:"application"`
	Title             string         `gorm:"not null" json:"title"`
	StartTime         time.Time      `gorm:"not null;index" json:"start_time"`
	EndTime           time.Time      `gorm:"not null" json:"end_time"`
	DurationSeconds   int64          `gorm:"not null;default:0" json:"duration_seconds"`
	TotalTime         string         `gorm:"not null" json:"total_time"`          // HH:MM:SS
	ReadableTotalTime string         `gorm:"not null" json:"readable_total_time"` // "H hr M mins S sec"
	CreatedAt         time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

type AppSummary struct {
	Application  string  `json:"application"`
	TotalSeconds int64   `json:"total_seconds"`
	TotalMinutes float64 `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	SegmentCount int     `json:"segment_count"`
	Percentage   float64 `json:"percentage,omitempty"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

type Report struct {
	Period       ReportPeriod `json:"period"`
	Apps         []AppSummary `json:"apps"`
	TotalSeconds int64        `json:"total_seconds"`
	TotalMinutes float64      `json:"total_minutes"`
	TotalHours   float64      `json:"total_hours"`
	GeneratedAt  time.Time    `json:"generated_at"`
}
