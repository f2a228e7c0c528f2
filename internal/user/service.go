package user

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/pkg/cerr"
)

const RoleMember = "member"

type Service struct {
	repo   Repository
	tokens *auth.TokenService
}

func NewService(repo Repository, tokens *auth.TokenService) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates an account and issues a token for it.
func (s *Service) Register(ctx context.Context, email, name, password string) (*User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)

	vErr := cerr.NewValidationError("invalid registration")
	if email == "" || !strings.Contains(email, "@") {
		vErr.AddViolation("email", "must be a valid email address")
	}
	if name == "" {
		vErr.AddViolation("name", "must not be empty")
	}
	if len(password) < 8 {
		vErr.AddViolation("password", "must be at least 8 characters")
	}
	if len(vErr.Details) > 0 {
		return nil, "", vErr
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, "", cerr.NewError(cerr.AlreadyExists, "email already registered", nil)
	} else if !cerr.IsCode(err, cerr.NotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", cerr.NewError(cerr.Internal, "server error", err)
	}

	u := &User{
		ID:           ulid.Make().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         RoleMember,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(s.identity(u))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies the password and issues a token. Unknown emails and wrong
// passwords fail identically so callers cannot probe for accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if cerr.IsCode(err, cerr.NotFound) {
			return nil, "", cerr.NewError(cerr.Unauthenticated, "invalid email or password", nil)
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", cerr.NewError(cerr.Unauthenticated, "invalid email or password", nil)
	}
	token, err := s.tokens.Issue(s.identity(u))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.Get(ctx, id)
}

// Resolve returns the identity summary for an id. An id that no longer
// resolves to an account yields a bare summary so task views stay useful.
func (s *Service) Resolve(ctx context.Context, id string) *Summary {
	if id == "" {
		return nil
	}
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return &Summary{ID: id}
	}
	return u.Summary()
}

func (s *Service) identity(u *User) auth.Identity {
	return auth.Identity{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}
}
