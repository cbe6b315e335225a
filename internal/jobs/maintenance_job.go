package jobs

import (
	"context"
	"fmt"
	"time"

	"propman-be-svc/internal/models"
	"propman-be-svc/internal/repository"
	"propman-be-svc/pkg/logger"
)

// MaintenanceFollowUpJob nudges the people responsible for stale tickets.
// Requests pending for more than pendingDays alert the landlord; requests
// in progress with no update for more than inProgressDays alert the
// assignee, the landlord and the reporting tenant.
type MaintenanceFollowUpJob struct {
	maintenanceRepo repository.MaintenanceRepository
	notifier        Notifier
	pendingDays     int
	inProgressDays  int
	logger          *logger.Logger
	now             func() time.Time
}

// NewMaintenanceFollowUpJob creates a new maintenance follow-up job
func NewMaintenanceFollowUpJob(
	maintenanceRepo repository.MaintenanceRepository,
	notifier Notifier,
	pendingDays, inProgressDays int,
	logger *logger.Logger,
) *MaintenanceFollowUpJob {
	return &MaintenanceFollowUpJob{
		maintenanceRepo: maintenanceRepo,
		notifier:        notifier,
		pendingDays:     pendingDays,
		inProgressDays:  inProgressDays,
		logger:          logger,
		now:             time.Now,
	}
}

// Run checks both staleness buckets once
func (j *MaintenanceFollowUpJob) Run(ctx context.Context) error {
	now := j.now()

	pending, err := j.maintenanceRepo.ListPendingCreatedBefore(now.AddDate(0, 0, -j.pendingDays))
	if err != nil {
		return fmt.Errorf("failed to list stale pending requests: %w", err)
	}
	for _, request := range pending {
		j.followUpPending(ctx, request, now)
	}

	inProgress, err := j.maintenanceRepo.ListInProgressUpdatedBefore(now.AddDate(0, 0, -j.inProgressDays))
	if err != nil {
		return fmt.Errorf("failed to list stale in-progress requests: %w", err)
	}
	for _, request := range inProgress {
		j.followUpInProgress(ctx, request, now)
	}

	j.logger.WithFields(map[string]interface{}{
		"stale_pending":     len(pending),
		"stale_in_progress": len(inProgress),
	}).Info("Maintenance follow-up job finished")
	return nil
}

func (j *MaintenanceFollowUpJob) followUpPending(ctx context.Context, request *models.MaintenanceRequest, now time.Time) {
	landlord := requestLandlord(request)
	if landlord == nil {
		return
	}

	age := int(now.Sub(request.CreatedAt).Hours() / 24)
	body := fmt.Sprintf("%q has been waiting for a decision for %d days.", request.Title, age)
	j.send(ctx, landlord, "Maintenance request needs attention", body, request.ID)
}

func (j *MaintenanceFollowUpJob) followUpInProgress(ctx context.Context, request *models.MaintenanceRequest, now time.Time) {
	age := int(now.Sub(request.UpdatedAt).Hours() / 24)
	body := fmt.Sprintf("%q has been in progress without updates for %d days.", request.Title, age)

	if request.Assignee != nil {
		j.send(ctx, request.Assignee, "Assigned maintenance work is stalled", body, request.ID)
	}
	if landlord := requestLandlord(request); landlord != nil {
		j.send(ctx, landlord, "Maintenance work is stalled", body, request.ID)
	}
	if request.Tenant != nil {
		tenantBody := fmt.Sprintf("Work on %q is still ongoing. We have asked for an update.", request.Title)
		j.send(ctx, request.Tenant, "Maintenance request update", tenantBody, request.ID)
	}
}

func (j *MaintenanceFollowUpJob) send(ctx context.Context, user *models.User, subject, body string, requestID uint) {
	if err := j.notifier.Notify(ctx, user, models.NotificationMaintenanceFollowUp, subject, body, map[string]interface{}{
		"maintenance_request_id": requestID,
	}); err != nil {
		j.logger.WithError(err).WithField("request_id", requestID).Warn("Failed to send maintenance follow-up")
	}
}

func requestLandlord(request *models.MaintenanceRequest) *models.User {
	if request.Property == nil {
		return nil
	}
	return request.Property.Landlord
}
