package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/internal/model"
	"github.com/Staunch-Software/Drs-backend/internal/repository"
)

// Notifier resolves recipients for defect lifecycle events and inserts
// the corresponding Notification and Task rows. It is pure targeting
// logic: no retries, no ordering. Callers pass the transaction-bound
// repository so a failed insert rolls back the triggering write.
type Notifier struct {
	logger *zap.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// DefectLink picks the UI destination for a notification recipient:
// fleet and shore sides land on different pages, and closed defects
// live under history rather than the active views.
func DefectLink(role model.UserRole, status model.DefectStatus, defectID string) string {
	if role == model.RoleVessel {
		if status == model.StatusClosed {
			return "/vessel/closed?highlightDefectId=" + defectID
		}
		return "/vessel/history?highlightDefectId=" + defectID
	}
	if status == model.StatusClosed {
		return "/shore/history?highlightDefectId=" + defectID
	}
	return "/shore/vessels?highlightDefectId=" + defectID
}

// NotifyVesselUsers inserts one ALERT notification for every active user
// linked to the defect's vessel, excluding the acting user.
func (n *Notifier) NotifyVesselUsers(
	ctx context.Context,
	repo *repository.Repository,
	defect *model.Defect,
	vesselName string,
	title string,
	message string,
	excludeUserID string,
) error {
	recipients, err := repo.User.ListActiveByVessel(ctx, defect.VesselIMO)
	if err != nil {
		return fmt.Errorf("resolving vessel recipients: %w", err)
	}

	finalMessage := fmt.Sprintf("[%s] %s", vesselName, message)

	delivered := 0
	for i := range recipients {
		recipient := &recipients[i]
		if recipient.UserID == excludeUserID {
			continue
		}

		notification := &model.Notification{
			UserID:  recipient.UserID,
			Type:    model.NotificationAlert,
			Title:   title,
			Message: finalMessage,
			Link:    DefectLink(recipient.Role, defect.Status, defect.DefectID),
		}
		if err := repo.Notification.Create(ctx, notification); err != nil {
			return fmt.Errorf("inserting notification for %s: %w", recipient.UserID, err)
		}
		delivered++
	}

	n.logger.Debug("notification fan-out complete",
		zap.String("defect_id", defect.DefectID),
		zap.String("vessel_imo", defect.VesselIMO),
		zap.Int("recipients", delivered),
	)

	return nil
}

// CreateMentionTasks inserts one PENDING task and one MENTION notification
// for every tagged user. Unknown tagged ids are skipped silently: the UI
// may reference users that have since been deactivated.
func (n *Notifier) CreateMentionTasks(
	ctx context.Context,
	repo *repository.Repository,
	defect *model.Defect,
	creatorID string,
	taggedUserIDs []string,
) error {
	tagged, err := repo.User.ListByIDs(ctx, taggedUserIDs)
	if err != nil {
		return fmt.Errorf("resolving tagged users: %w", err)
	}

	for i := range tagged {
		user := &tagged[i]

		task := &model.Task{
			Description:  fmt.Sprintf("You were mentioned in: %s", defect.Title),
			Status:       model.TaskPending,
			DefectID:     &defect.DefectID,
			CreatedByID:  &creatorID,
			AssignedToID: user.UserID,
		}
		if err := repo.Task.Create(ctx, task); err != nil {
			return fmt.Errorf("inserting task for %s: %w", user.UserID, err)
		}

		notification := &model.Notification{
			UserID:  user.UserID,
			Type:    model.NotificationMention,
			Title:   "New Mention",
			Message: fmt.Sprintf("You were tagged in defect: %s", defect.Title),
			Link:    DefectLink(user.Role, defect.Status, defect.DefectID),
		}
		if err := repo.Notification.Create(ctx, notification); err != nil {
			return fmt.Errorf("inserting mention notification for %s: %w", user.UserID, err)
		}
	}

	return nil
}
