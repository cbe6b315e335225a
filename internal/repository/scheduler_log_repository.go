package repository

import (
	"gorm.io/gorm"

	"propman-be-svc/internal/models"
)

// SchedulerLogRepository defines the interface for scheduler run log operations
type SchedulerLogRepository interface {
	Create(entry *models.SchedulerLog) error
	ListByJob(jobCode string, limit int) ([]*models.SchedulerLog, error)
}

// schedulerLogRepository implements SchedulerLogRepository
type schedulerLogRepository struct {
	db *gorm.DB
}

// NewSchedulerLogRepository creates a new instance of SchedulerLogRepository
func NewSchedulerLogRepository(db *gorm.DB) SchedulerLogRepository {
	return &schedulerLogRepository{db: db}
}

func (r *schedulerLogRepository) Create(entry *models.SchedulerLog) error {
	return r.db.Create(entry).Error
}

func (r *schedulerLogRepository) ListByJob(jobCode string, limit int) ([]*models.SchedulerLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []*models.SchedulerLog
	err := r.db.Where("job_code = ?", jobCode).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
