package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bittietasks/platform/internal/config"
	"github.com/bittietasks/platform/internal/domain"
	"github.com/bittietasks/platform/internal/notify"
	"github.com/bittietasks/platform/internal/repository"
)

type UserService struct {
	db       *pgxpool.Pool
	store    *repository.Store
	cfg      *config.Config
	notifier *notify.Notifier
}

func NewUserService(db *pgxpool.Pool, store *repository.Store, cfg *config.Config, notifier *notify.Notifier) *UserService {
	return &UserService{db: db, store: store, cfg: cfg, notifier: notifier}
}

// Signup creates a user on the free tier and issues a bearer session token.
func (s *UserService) Signup(ctx context.Context, email, phone, displayName string, now time.Time) (domain.User, string, error) {
	user, err := s.store.CreateUser(ctx, repository.CreateUserParams{
		Email:       email,
		Phone:       phone,
		DisplayName: displayName,
	})
	if err != nil {
		return domain.User{}, "", err
	}

	token := uuid.NewString()
	if err := s.store.CreateSession(ctx, token, user.ID, now.Add(s.cfg.SessionTTL)); err != nil {
		return domain.User{}, "", fmt.Errorf("create session: %w", err)
	}

	s.notifier.Registration(email)
	return user, token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *UserService) Authenticate(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, domain.ErrSessionNotFound
	}
	u, err := s.store.GetUserBySessionToken(ctx, token, now)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.store.GetUserByID(ctx, id)
}
