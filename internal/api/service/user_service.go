package service

import (
	"context"
	"errors"

	"critichub/internal/api/dto"
	"critichub/internal/api/models"
	"critichub/internal/api/repository"

	"gorm.io/gorm"
)

// UserService backs both the admin-facing user directory (keyed by
// username) and the self-profile endpoint (keyed by the session identity).
type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedUserResponse, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	UpdateByUsername(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteByUsername(ctx context.Context, username string) error
	GetSelf(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateSelf(ctx context.Context, userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginatedUserResponse(responses, int(total), page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := models.RoleUser
	if req.Role != "" {
		role = models.Role(req.Role)
		if !models.ValidRole(role) {
			return nil, ErrInvalidRole
		}
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Bio:      req.Bio,
		Role:     role,
		IsStaff:  models.StaffForRole(role),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// UpdateByUsername applies the patch and, when the role changes, recomputes
// the staff flag in the same write. Role and flag can never disagree in the
// store because both land in a single UPDATE.
func (s *userService) UpdateByUsername(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := applyUserPatch(user, req); err != nil {
		return nil, err
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		if !models.ValidRole(role) {
			return nil, ErrInvalidRole
		}
		user.Role = role
		user.IsStaff = models.StaffForRole(role)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) DeleteByUsername(ctx context.Context, username string) error {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, user.ID)
}

func (s *userService) GetSelf(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// UpdateSelf lets a user edit their own profile. Role changes only go
// through the admin-facing path.
func (s *userService) UpdateSelf(ctx context.Context, userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if req.Role != nil {
		return nil, ErrRoleNotEditable
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := applyUserPatch(user, req); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func applyUserPatch(user *models.User, req dto.UpdateUserRequest) error {
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	return nil
}
