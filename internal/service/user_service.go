package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Staunch-Software/Drs-backend/internal/dto"
	"github.com/Staunch-Software/Drs-backend/internal/model"
	"github.com/Staunch-Software/Drs-backend/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("a user with this email already exists")
	ErrNotOwner     = errors.New("resource belongs to another user")
)

// UserService manages accounts and the per-user inbox (mention tasks and
// in-app notifications).
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	List(ctx context.Context, offset, limit int) ([]dto.UserResponse, int64, error)
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)

	MyTasks(ctx context.Context, userID string) ([]dto.TaskResponse, error)
	CompleteTask(ctx context.Context, userID, taskID string) (*dto.TaskResponse, error)
	MyNotifications(ctx context.Context, userID string) ([]dto.NotificationResponse, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) (*dto.NotificationResponse, error)
	MarkAllSeen(ctx context.Context, userID string) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates the UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// Create registers an account. Unknown vessel IMOs in the assignment list
// are skipped with a warning rather than failing the whole request, so
// shore admins can pre-provision accounts while the fleet list catches up.
func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role, err := model.ParseUserRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var vessels []model.Vessel
	if len(req.AssignedVesselIMOs) > 0 {
		vessels, err = s.repo.Vessel.ListByIMOs(ctx, req.AssignedVesselIMOs)
		if err != nil {
			return nil, err
		}
		if len(vessels) < len(req.AssignedVesselIMOs) {
			s.logger.Warn("some assigned vessels do not exist",
				zap.Strings("requested", req.AssignedVesselIMOs),
				zap.Int("found", len(vessels)))
		}
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		JobTitle:     req.JobTitle,
		Role:         role,
		IsActive:     true,
		Vessels:      vessels,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("creating user failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) MyTasks(ctx context.Context, userID string) ([]dto.TaskResponse, error) {
	tasks, err := s.repo.Task.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, *toTaskResponse(&tasks[i]))
	}
	return result, nil
}

// CompleteTask marks a mention task done. Only the assignee may complete it.
func (s *userService) CompleteTask(ctx context.Context, userID, taskID string) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if task.AssignedToID != userID {
		return nil, ErrNotOwner
	}

	task.Status = model.TaskCompleted
	if err := s.repo.Task.Update(ctx, task); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *userService) MyNotifications(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.Notification.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		result = append(result, *toNotificationResponse(&notifications[i]))
	}
	return result, nil
}

func (s *userService) MarkNotificationRead(ctx context.Context, userID, notificationID string) (*dto.NotificationResponse, error) {
	notification, err := s.repo.Notification.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if notification.UserID != userID {
		return nil, ErrNotOwner
	}

	notification.IsRead = true
	notification.IsSeen = true
	if err := s.repo.Notification.Update(ctx, notification); err != nil {
		return nil, err
	}
	return toNotificationResponse(notification), nil
}

// MarkAllSeen clears the unseen-badge counter without touching read state.
func (s *userService) MarkAllSeen(ctx context.Context, userID string) error {
	return s.repo.Notification.MarkAllSeen(ctx, userID)
}

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:                 u.UserID,
		Email:              u.Email,
		FullName:           u.FullName,
		JobTitle:           u.JobTitle,
		Role:               string(u.Role),
		IsActive:           u.IsActive,
		AssignedVesselIMOs: u.VesselIMOs(),
		CreatedAt:          u.CreatedAt,
	}
}

func toTaskResponse(t *model.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:           t.TaskID,
		Description:  t.Description,
		Status:       string(t.Status),
		DefectID:     t.DefectID,
		CreatedByID:  t.CreatedByID,
		AssignedToID: t.AssignedToID,
		CreatedAt:    t.CreatedAt,
	}
}

func toNotificationResponse(n *model.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		ID:        n.NotificationID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		IsSeen:    n.IsSeen,
		CreatedAt: n.CreatedAt,
	}
}
