package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
	"github.com/sangkips/shopdesk-api/pkg/utils"
	"github.com/sangkips/shopdesk-api/pkg/validation"
)

// UserService handles management of dashboard operators
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns a paginated list of users
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// CreateUserInput represents the create user input. Password may be empty
// for operators who only sign in with Google.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     enum.Role
}

// CreateUser registers a new operator
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	var v validation.Collector
	name := strings.TrimSpace(input.Name)
	emailAddr := normalizeEmail(input.Email)
	role := input.Role
	if role == "" {
		role = enum.RoleStaff
	}
	v.Required("name", name)
	v.Required("email", emailAddr)
	v.Email("email", &emailAddr)
	if !role.IsValid() {
		v.Add("role", "role must be admin or staff")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	user := &entity.User{
		Name:     name,
		Email:    emailAddr,
		Provider: "local",
		Role:     role,
		Active:   true,
	}
	if input.Password != "" {
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperror.NewConflictError("Email already registered")
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserInput represents the admin update of another operator
type UpdateUserInput struct {
	ActorID uuid.UUID
	UserID  uuid.UUID
	Name    *string
	Role    *enum.Role
	Active  *bool
}

// UpdateUser changes an operator's name, role or active flag. Admins
// cannot demote or deactivate themselves, and the last active admin is kept.
func (s *UserService) UpdateUser(ctx context.Context, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "name is required")
		}
		user.Name = name
	}

	losesAdmin := false
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, apperror.NewFieldError("role", "role must be admin or staff")
		}
		losesAdmin = user.IsAdmin() && *input.Role != enum.RoleAdmin
		user.Role = *input.Role
	}
	if input.Active != nil {
		losesAdmin = losesAdmin || (user.Active && !*input.Active && user.Role == enum.RoleAdmin)
		user.Active = *input.Active
	}

	if losesAdmin {
		if input.ActorID == user.ID {
			return nil, apperror.NewBadRequestError("You cannot remove your own admin access")
		}
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ensureAnotherAdmin(ctx context.Context) error {
	admins, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return apperror.NewConflictError("At least one active admin is required")
	}
	return nil
}

// DeleteUser soft deletes an operator
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() && user.Active {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	return s.userRepo.Delete(ctx, userID)
}
