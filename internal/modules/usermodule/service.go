package usermodule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/streamvault/streamvault/internal/clock"
	"github.com/streamvault/streamvault/internal/database"
	apperrors "github.com/streamvault/streamvault/internal/errors"
	"github.com/streamvault/streamvault/internal/events"
)

// Simulated network round-trip per operation.
const (
	listDelay   = 700 * time.Millisecond
	addDelay    = 800 * time.Millisecond
	updateDelay = 600 * time.Millisecond
	deleteDelay = 700 * time.Millisecond
)

// Service implements managed-user administration. It owns the user store.
type Service struct {
	db       *gorm.DB
	clock    clock.Clock
	bus      events.EventBus
	validate *validator.Validate
}

// NewService creates a user service over the given store.
func NewService(db *gorm.DB, clk clock.Clock, bus events.EventBus) *Service {
	return &Service{
		db:       db,
		clock:    clk,
		bus:      bus,
		validate: validator.New(),
	}
}

// AddUserRequest carries the fields accepted when creating an account.
// The ID and creation time are assigned by the service.
type AddUserRequest struct {
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Status    database.UserStatus `json:"status"`
	Plan      database.UserPlan   `json:"plan"`
	LastLogin time.Time           `json:"lastLogin"`
}

// UserPatch is a shallow-merge update: nil fields are preserved.
// CreatedAt is deliberately absent; it is immutable after creation.
type UserPatch struct {
	Name      *string              `json:"name"`
	Email     *string              `json:"email"`
	Status    *database.UserStatus `json:"status"`
	Plan      *database.UserPlan   `json:"plan"`
	LastLogin *time.Time           `json:"lastLogin"`
}

// Initialize seeds the user store, replacing whatever is stored.
func (s *Service) Initialize(users []database.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&database.User{}).Error; err != nil {
			return apperrors.InternalError("initialize_users", err)
		}
		if len(users) == 0 {
			return nil
		}
		if err := tx.Create(&users).Error; err != nil {
			return apperrors.InternalError("initialize_users", err)
		}
		return nil
	})
}

// List returns a snapshot of all managed users.
func (s *Service) List(ctx context.Context) ([]database.User, error) {
	if err := s.clock.Sleep(ctx, listDelay); err != nil {
		return nil, err
	}

	var users []database.User
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&users).Error; err != nil {
		return nil, apperrors.InternalError("list_users", err)
	}
	return users, nil
}

// Add validates and stores a new account. Email format is checked first;
// uniqueness (case-insensitive) is checked before any mutation.
func (s *Service) Add(ctx context.Context, req AddUserRequest) (*database.User, error) {
	if req.Name == "" {
		return nil, apperrors.ValidationError("add_user", apperrors.ErrMissingRequiredFields)
	}
	if err := s.validate.Var(req.Email, "required,email"); err != nil {
		return nil, apperrors.ValidationError("add_user", apperrors.ErrInvalidEmail)
	}

	status := req.Status
	if status == "" {
		status = database.UserStatusActive
	}
	plan := req.Plan
	if plan == "" {
		plan = database.UserPlanBasic
	}
	if !status.Valid() || !plan.Valid() {
		return nil, apperrors.ValidationError("add_user", apperrors.ErrMissingRequiredFields)
	}

	if err := s.clock.Sleep(ctx, addDelay); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(ctx, req.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ConflictError("add_user", apperrors.ErrDuplicateEmail)
	}

	now := s.clock.Now()
	lastLogin := req.LastLogin
	if lastLogin.IsZero() {
		lastLogin = now
	}

	user := database.User{
		Name:      req.Name,
		Email:     req.Email,
		Status:    status,
		Plan:      plan,
		CreatedAt: now,
		LastLogin: lastLogin,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperrors.InternalError("add_user", err)
	}

	s.notify(events.EventUserAdded, "User Added",
		fmt.Sprintf("%s has been added as a new user.", user.Name), user.ID)
	return &user, nil
}

// Update shallow-merges the patch over the stored account. An email change
// re-checks uniqueness against all other accounts. CreatedAt never changes.
func (s *Service) Update(ctx context.Context, id string, patch UserPatch) (*database.User, error) {
	if err := s.clock.Sleep(ctx, updateDelay); err != nil {
		return nil, err
	}

	var user database.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("update_user", apperrors.ErrUserNotFound).WithEntity("user", id)
		}
		return nil, apperrors.InternalError("update_user", err)
	}

	if patch.Email != nil && !strings.EqualFold(*patch.Email, user.Email) {
		if err := s.validate.Var(*patch.Email, "required,email"); err != nil {
			return nil, apperrors.ValidationError("update_user", apperrors.ErrInvalidEmail)
		}
		taken, err := s.emailTaken(ctx, *patch.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ConflictError("update_user", apperrors.ErrDuplicateEmail)
		}
	}

	createdAt := user.CreatedAt
	applyPatch(&user, patch)
	user.CreatedAt = createdAt

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, apperrors.InternalError("update_user", err)
	}

	s.notify(events.EventUserUpdated, "User Updated",
		fmt.Sprintf("%s's information has been updated.", user.Name), user.ID)
	return &user, nil
}

// Delete removes the account.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.clock.Sleep(ctx, deleteDelay); err != nil {
		return err
	}

	var user database.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundError("delete_user", apperrors.ErrUserNotFound).WithEntity("user", id)
		}
		return apperrors.InternalError("delete_user", err)
	}

	if err := s.db.WithContext(ctx).Delete(&user).Error; err != nil {
		return apperrors.InternalError("delete_user", err)
	}

	s.notify(events.EventUserRemoved, "User Removed",
		fmt.Sprintf("%s has been removed from the platform.", user.Name), user.ID)
	return nil
}

// emailTaken reports whether another account already uses the address.
// Comparison is case-insensitive, matching the login lookup.
func (s *Service) emailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	query := s.db.WithContext(ctx).Model(&database.User{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.InternalError("check_email", err)
	}
	return count > 0, nil
}

func applyPatch(user *database.User, patch UserPatch) {
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Status != nil {
		user.Status = *patch.Status
	}
	if patch.Plan != nil {
		user.Plan = *patch.Plan
	}
	if patch.LastLogin != nil {
		user.LastLogin = *patch.LastLogin
	}
}

func (s *Service) notify(eventType events.EventType, title, message, userID string) {
	if s.bus == nil {
		return
	}
	event := events.Notification(eventType, ModuleID, title, message)
	event.Data = map[string]interface{}{"user_id": userID}
	_ = s.bus.PublishAsync(event)
}
