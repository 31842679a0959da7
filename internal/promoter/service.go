package promoter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/promohub/promohub/internal/session"
)

// Service manages promoter lifecycle.
type Service struct {
	repo  Repository
	cache *session.ProfileCache
}

// NewService creates a promoter service. The cache may be nil.
func NewService(repo Repository, cache *session.ProfileCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Register creates a new promoter with a hashed password.
func (s *Service) Register(ctx context.Context, creds Credentials, name string) (Promoter, error) {
	if len(creds.Password) < 8 {
		return Promoter{}, errors.New("password must be at least 8 characters")
	}
	if creds.Phone == "" {
		return Promoter{}, errors.New("phone is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return Promoter{}, err
	}

	p := Promoter{
		ID:             uuid.NewString(),
		Phone:          creds.Phone,
		Name:           name,
		Role:           session.RolePromoter,
		CredentialHash: hash,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Promoter{}, err
	}
	return p, nil
}

// Authenticate verifies credentials.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Promoter, error) {
	p, err := s.repo.FindByPhone(ctx, creds.Phone)
	if err != nil {
		return Promoter{}, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(p.CredentialHash, []byte(creds.Password)); err != nil {
		return Promoter{}, errors.New("invalid credentials")
	}
	return p, nil
}

// Get fetches a promoter by id.
func (s *Service) Get(ctx context.Context, id string) (Promoter, error) {
	return s.repo.FindByID(ctx, id)
}

// ChangeRole updates the promoter's role and invalidates the cached profile
// so the old role cannot be served from cache.
func (s *Service) ChangeRole(ctx context.Context, id string, role session.Role) error {
	if role == session.RoleUnknown {
		return errors.New("unknown role")
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, id)
	}
	return nil
}

// Logout drops the cached profile for the promoter.
func (s *Service) Logout(ctx context.Context, id string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, id)
}
