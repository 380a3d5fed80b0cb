package identity

import (
	"context"
	"time"

	"github.com/shopcraft/backend/internal/domain/identity"
	"github.com/shopcraft/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles account management operations
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateAdminInput contains input for provisioning an administrator
type CreateAdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateProfileInput contains input for updating a user's own profile
type UpdateProfileInput struct {
	ID        uuid.UUID
	FirstName *string
	LastName  *string
}

// UserListFilter represents filter options for user listing
type UserListFilter struct {
	Role     string `form:"role" binding:"omitempty,oneof=customer admin"`
	Status   string `form:"status" binding:"omitempty,oneof=active locked deactivated"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at email last_login_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserListResult represents paginated user list result
type UserListResult struct {
	Users      []UserInfo `json:"users"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// CreateAdmin provisions a new administrator account
func (s *UserService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*UserInfo, error) {
	s.logger.Info("Creating admin account", zap.String("email", input.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	user, err := identity.NewAdminUser(input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if input.FirstName != "" || input.LastName != "" {
		if err := user.SetName(input.FirstName, input.LastName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to create admin account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	s.logger.Info("Admin account created", zap.String("user_id", user.ID.String()))

	info := ToUserInfo(user)
	return &info, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}

// List retrieves a paginated list of users
func (s *UserService) List(ctx context.Context, filter UserListFilter) (*UserListResult, error) {
	domainFilter := toUserDomainFilter(filter)

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	totalPages := int(total) / domainFilter.PageSize
	if int(total)%domainFilter.PageSize > 0 {
		totalPages++
	}

	infos := make([]UserInfo, len(users))
	for i, user := range users {
		infos[i] = ToUserInfo(user)
	}

	return &UserListResult{
		Users:      infos,
		Total:      total,
		Page:       domainFilter.Page,
		PageSize:   domainFilter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateProfile updates a user's name fields
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.findUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	firstName := user.FirstName
	lastName := user.LastName
	if input.FirstName != nil {
		firstName = *input.FirstName
	}
	if input.LastName != nil {
		lastName = *input.LastName
	}

	if err := user.SetName(firstName, lastName); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	s.logger.Info("User profile updated", zap.String("user_id", input.ID.String()))

	info := ToUserInfo(user)
	return &info, nil
}

// Promote grants administrator access to a user
func (s *UserService) Promote(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	return s.mutate(ctx, id, "promote", func(u *identity.User) error {
		return u.PromoteToAdmin()
	})
}

// Demote revokes administrator access. The acting admin cannot demote
// themselves so the system always keeps at least one reachable admin.
func (s *UserService) Demote(ctx context.Context, actorID, id uuid.UUID) (*UserInfo, error) {
	if actorID == id {
		return nil, shared.NewDomainError("SELF_DEMOTION", "Administrators cannot demote their own account")
	}

	return s.mutate(ctx, id, "demote", func(u *identity.User) error {
		return u.DemoteToCustomer()
	})
}

// Activate re-enables a user account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	return s.mutate(ctx, id, "activate", func(u *identity.User) error {
		return u.Activate()
	})
}

// Deactivate disables a user account
func (s *UserService) Deactivate(ctx context.Context, actorID, id uuid.UUID) (*UserInfo, error) {
	if actorID == id {
		return nil, shared.NewDomainError("SELF_DEACTIVATION", "Administrators cannot deactivate their own account")
	}

	return s.mutate(ctx, id, "deactivate", func(u *identity.User) error {
		return u.Deactivate()
	})
}

// Lock locks a user account for the given duration
func (s *UserService) Lock(ctx context.Context, id uuid.UUID, duration time.Duration) (*UserInfo, error) {
	return s.mutate(ctx, id, "lock", func(u *identity.User) error {
		return u.Lock(duration)
	})
}

// Unlock unlocks a user account
func (s *UserService) Unlock(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	return s.mutate(ctx, id, "unlock", func(u *identity.User) error {
		return u.Unlock()
	})
}

// ResetPassword resets a user's password (admin action)
func (s *UserService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to reset password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.logger.Info("User password reset", zap.String("user_id", userID.String()))

	return nil
}

// Delete removes a user account
func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewDomainError("SELF_DELETION", "Administrators cannot delete their own account")
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		s.logger.Error("Failed to delete user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete user")
	}

	s.logger.Info("User deleted", zap.String("user_id", id.String()))

	return nil
}

// mutate applies a domain mutation to a user and persists the result
func (s *UserService) mutate(ctx context.Context, id uuid.UUID, action string, fn func(*identity.User) error) (*UserInfo, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.String("action", action), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.logger.Info("User updated",
		zap.String("user_id", id.String()),
		zap.String("action", action))

	info := ToUserInfo(user)
	return &info, nil
}

func (s *UserService) findUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}
	return user, nil
}

// toUserDomainFilter converts a UserListFilter to a domain filter
func toUserDomainFilter(filter UserListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()

	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	} else {
		domainFilter.OrderBy = "created_at"
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	} else {
		domainFilter.OrderDir = "desc"
	}
	if filter.Search != "" {
		domainFilter.Search = filter.Search
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	return domainFilter
}
