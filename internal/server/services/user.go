// Package services contains server-side business logic. UserService handles
// registration, credential checks and token issuance; HistoryService keeps
// each user's recent weather searches.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/weatherdesk/weatherdesk/internal/common"
	"github.com/weatherdesk/weatherdesk/internal/dbx"
	"github.com/weatherdesk/weatherdesk/internal/server/auth"
	"github.com/weatherdesk/weatherdesk/internal/server/models"
	"github.com/weatherdesk/weatherdesk/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 10

// dummyHash is compared against when the email is unknown so both failure
// paths spend a bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("weatherdesk-dummy-password"), PasswordCost)
	if err != nil {
		panic(err)
	}
	return h
})

// UserService provides authentication-related operations:
// - Register: create users with a bcrypt password hash
// - VerifyCredentials / Login: check a password and mint a token
// - Profile: load the account behind a verified token
type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	cost        int
}

// NewUserService constructs a UserService. db may be nil when m does not need
// a connection.
func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, issuer *auth.Issuer) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		issuer:      issuer,
		cost:        PasswordCost,
	}
}

type registration struct {
	Username string
	Email    string
	Password string
}

func (r *registration) validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
	if err != nil {
		return common.NewValidationError("All fields required")
	}
	if err := validation.Validate(r.Email, is.EmailFormat); err != nil {
		return common.NewValidationError("Invalid email address")
	}
	return nil
}

// Register stores a new account. It returns a common.ValidationError for
// missing or malformed fields and common.ErrDuplicateEmail when the email is
// taken.
func (s *UserService) Register(ctx context.Context, username, email, password string) error {
	in := registration{
		Username: strings.TrimSpace(username),
		Email:    normalizeEmail(email),
		Password: password,
	}
	if err := in.validate(); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return common.NewValidationError("Password is too long")
		}
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}

	_, err = repo.Create(ctx, &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return common.ErrDuplicateEmail
		}
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return nil
}

// VerifyCredentials returns the account when password matches. Unknown email
// and wrong password both yield common.ErrInvalidCredentials.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token for the account.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return token, user, nil
}

// Profile returns the account with the given id, or common.ErrNotFound.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	user.PasswordHash = ""
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
