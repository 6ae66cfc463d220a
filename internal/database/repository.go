package database

import (
	"time"

	"apptrack/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for activity segments
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a closed activity segment into the database
func (r *Repository) Create(segment *models.ActivitySegment) error {
	result := r.db.Create(segment)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert activity segment")
	}
	return nil
}

// GetSegmentsSince retrieves all segments whose start falls at or after the
// given time, oldest first.
func (r *Repository) GetSegmentsSince(since time.Time) ([]*models.ActivitySegment, error) {
	var segments []*models.ActivitySegment
	result := r.db.Where("start_time >= ?", since).Order("start_time ASC").Find(&segments)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query activity segments")
	}

	return segments, nil
}

// GetAppSummarySince returns per-application totals since a given time.
// SQL does the SUM; callers compute percentages. Sentinel labels can be
// filtered out with excludeLabels.
func (r *Repository) GetAppSummarySince(since time.Time, excludeLabels ...string) ([]models.AppSummary, error) {
	var summaries []models.AppSummary

	query := r.db.Model(&models.ActivitySegment{}).
		Select("application, SUM(duration_seconds) as total_seconds, COUNT(*) as segment_count").
		Where("start_time >= ?", since)

	if len(excludeLabels) > 0 {
		query = query.Where("application NOT IN ?", excludeLabels)
	}

	result := query.Group("application").
		Order("total_seconds DESC").
		Scan(&summaries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query app summary")
	}

	return summaries, nil
}

// GetLatest retrieves the most recently ended segment
func (r *Repository) GetLatest() (*models.ActivitySegment, error) {
	var segment models.ActivitySegment
	result := r.db.Order("end_time DESC").First(&segment)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest segment")
	}
	return &segment, nil
}

// DeleteOldSegments deletes segments that ended before a given date (soft delete)
func (r *Repository) DeleteOldSegments(before time.Time) (int64, error) {
	result := r.db.Where("end_time < ?", before).Delete(&models.ActivitySegment{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old segments")
	}
	return result.RowsAffected, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// Clear removes all activity segments from the database
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM activity_segments")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear activity segments")
	}
	return nil
}
