package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"itams/pkg/apperr"
)

var ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "invalid credentials")

type UserService interface {
	CreateUser(ctx context.Context, name, email, role, password string) (User, error)
	UpdateUser(ctx context.Context, u User) (User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetUserByID(ctx context.Context, id int64) (User, error)
	ListUsers(ctx context.Context, page, limit int) ([]User, int64, error)
	Login(ctx context.Context, email, password string) (User, error)
}

type userService struct {
	repo     UserRepository
	hashCost int
}

func NewUserService(repo UserRepository) UserService {
	return &userService{repo: repo, hashCost: bcrypt.DefaultCost}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperr.Validation("email must be a valid email")
	}
	return email, nil
}

// CreateUser registers a user. A soft-deleted user with the same email is
// revived in place so their history stays attached.
func (s *userService) CreateUser(ctx context.Context, name, email, role, password string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, apperr.Validation("name is required")
	}
	if role == "" {
		role = RoleStaff
	}
	if !validRole(role) {
		return User{}, apperr.Validation("invalid role")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return User{}, err
	}
	hash := string(hashBytes)

	_, deleted, err := s.repo.GetUserByEmailIncludingDeleted(ctx, email)
	switch {
	case err == nil && deleted:
		u, err := s.repo.ReviveUserByEmail(ctx, email, name, role, hash)
		if err != nil {
			return User{}, err
		}
		zerolog.Ctx(ctx).Info().Int64("user_id", u.ID).Msg("user.revived")
		return u, nil
	case err == nil:
		return User{}, ErrEmailTaken
	case !errors.Is(err, ErrUserNotFound):
		return User{}, err
	}

	u, err := s.repo.CreateUser(ctx, name, email, role, hash)
	if err != nil {
		return User{}, err
	}
	zerolog.Ctx(ctx).Info().Int64("user_id", u.ID).Str("role", u.Role).Msg("user.created")
	return u, nil
}

// UpdateUser applies a partial update: empty fields keep their value.
func (s *userService) UpdateUser(ctx context.Context, u User) (User, error) {
	current, err := s.repo.GetUserByID(ctx, u.ID)
	if err != nil {
		return User{}, err
	}

	if name := strings.TrimSpace(u.Name); name != "" {
		current.Name = name
	}
	if u.Role != "" {
		if !validRole(u.Role) {
			return User{}, apperr.Validation("invalid role")
		}
		current.Role = u.Role
	}
	if u.Email != "" {
		email, err := normalizeEmail(u.Email)
		if err != nil {
			return User{}, err
		}
		current.Email = email
	}
	return s.repo.UpdateUser(ctx, current)
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Int64("user_id", id).Msg("user.deleted")
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.ListUsers(ctx, limit, offset)
}

// Login checks a password. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *userService) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	id, hash, err := s.repo.GetUserAuthByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return s.repo.GetUserByID(ctx, id)
}
