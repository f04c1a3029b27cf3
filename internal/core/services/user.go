package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"
	"github.com/Tanmayraut16/Neon-Chat/pkg/logging"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	Signup(ctx context.Context, email, fullName, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// UpdateProfilePic uploads the data URI to the media store and persists
	// the resulting URL.
	UpdateProfilePic(ctx context.Context, id uuid.UUID, dataURI string) (*domain.User, error)
	// Roster returns everyone except the caller.
	Roster(ctx context.Context, callerID uuid.UUID) ([]domain.User, error)
}

type UserService struct {
	log       *slog.Logger
	repo      domain.UserRepository
	media     contracts.MediaStore
	txManager TxRunner
}

func NewUserService(log *slog.Logger, repo domain.UserRepository, media contracts.MediaStore, txManager TxRunner) *UserService {
	return &UserService{
		log:       log,
		repo:      repo,
		media:     media,
		txManager: txManager,
	}
}

func (s *UserService) Signup(ctx context.Context, email, fullName, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || fullName == "" {
		return nil, errors.New("email and full name are required")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.CreateUser(txCtx, user)
	}); err != nil {
		s.log.ErrorContext(ctx, "user - signup - create user failed", slog.String("email", email), logging.Err(err))
		return nil, err
	}
	s.log.InfoContext(ctx, "user - signup - user created", logging.UserID(user.ID.String()))
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.WarnContext(ctx, "user - login - wrong password", slog.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *UserService) UpdateProfilePic(ctx context.Context, id uuid.UUID, dataURI string) (*domain.User, error) {
	if dataURI == "" {
		return nil, errors.New("profile picture is required")
	}
	url, err := s.media.Upload(ctx, dataURI)
	if err != nil {
		s.log.ErrorContext(ctx, "user - update profile pic - upload failed", logging.UserID(id.String()), logging.Err(err))
		return nil, fmt.Errorf("upload profile picture: %w", err)
	}
	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.UpdateProfilePic(txCtx, id, url)
	}); err != nil {
		s.log.ErrorContext(ctx, "user - update profile pic - persist failed", logging.UserID(id.String()), logging.Err(err))
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}

func (s *UserService) Roster(ctx context.Context, callerID uuid.UUID) ([]domain.User, error) {
	return s.repo.ListOthers(ctx, callerID)
}
