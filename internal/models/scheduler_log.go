package models

import (
	"time"
)

// Scheduler run statuses
const (
	SchedulerRunStart   = "START"
	SchedulerRunSuccess = "SUCCESS"
	SchedulerRunFailed  = "FAILED"
)

// SchedulerLog represents the scheduler_logs table. Each scheduled job run
// writes a START row and a terminal SUCCESS/FAILED row keyed by RunID.
type SchedulerLog struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	RunID     string    `json:"run_id" gorm:"column:run_id;index"`
	JobCode   string    `json:"job_code" gorm:"column:job_code;index"`
	Status    string    `json:"status" gorm:"column:status"`
	Message   string    `json:"message" gorm:"column:message"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the insert table name for SchedulerLog
func (SchedulerLog) TableName() string {
	return "scheduler_logs"
}
