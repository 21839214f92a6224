// Package auth owns credentials and the JWT session model: password hashing,
// token issue and rotation, and the refresh-token blacklist.
package auth

import (
	"context"
	"errors"
	"time"

	"cafehere/apperr"
	"cafehere/model"
	"cafehere/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidMobile   = "Enter a valid mobile number."
	msgMobileTooLong   = "Ensure this field has no more than 18 characters."
	msgMobileTaken     = "user with this mobile already exists."
	msgPasswordBlank   = "This field may not be blank."
	msgBadCredentials  = "No active account found with the given credentials"
	msgPasswordTooLong = "Ensure this field has no more than 72 bytes."
)

type CredentialService struct {
	users repository.UserRepository
	cost  int
}

func NewCredentialService(users repository.UserRepository) *CredentialService {
	return &CredentialService{users: users, cost: bcrypt.DefaultCost}
}

// WithCost returns a copy hashing at the given bcrypt cost.
func (s *CredentialService) WithCost(cost int) *CredentialService {
	clone := *s
	clone.cost = cost
	return &clone
}

func (s *CredentialService) Register(ctx context.Context, mobile, password string) (*model.User, error) {
	return s.create(ctx, &model.User{Mobile: mobile, IsActive: true}, password)
}

// CreateSuperuser registers a staff superuser. It does not bypass cafe ownership.
func (s *CredentialService) CreateSuperuser(ctx context.Context, mobile, password string) (*model.User, error) {
	return s.create(ctx, &model.User{Mobile: mobile, IsActive: true, IsStaff: true, IsSuperuser: true}, password)
}

func (s *CredentialService) create(ctx context.Context, user *model.User, password string) (*model.User, error) {
	if !model.ValidMobile(user.Mobile) {
		return nil, apperr.Field("mobile", msgInvalidMobile)
	}
	if len(user.Mobile) > model.MobileMaxLength {
		return nil, apperr.Field("mobile", msgMobileTooLong)
	}
	if password == "" {
		return nil, apperr.Field("password", msgPasswordBlank)
	}
	if len(password) > 72 {
		return nil, apperr.Field("password", msgPasswordTooLong)
	}
	exists, err := s.users.ExistsByMobile(ctx, user.Mobile)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, apperr.Field("mobile", msgMobileTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Field("mobile", msgMobileTaken)
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// AuthenticateByPassword returns the same error for an unknown mobile, a wrong
// password and an inactive account.
func (s *CredentialService) AuthenticateByPassword(ctx context.Context, mobile, password string) (*model.User, error) {
	user, err := s.users.FindByMobile(ctx, mobile)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}
