// Package jobs holds the daily background tasks the scheduler drives.
// Every job is idempotent so a rerun on the same day cannot duplicate
// records, and item failures are logged and skipped rather than aborting
// the whole run.
package jobs

import (
	"context"

	"propman-be-svc/internal/models"
)

// Job codes recorded in the scheduler run log
const (
	JobCodeOverdue     = "PAYMENT_OVERDUE"
	JobCodeReminder    = "PAYMENT_REMINDER"
	JobCodeMaintenance = "MAINTENANCE_FOLLOW_UP"
)

// Notifier is the slice of the notification service the jobs need
type Notifier interface {
	Notify(ctx context.Context, user *models.User, kind, subject, body string, payload map[string]interface{}) error
}
