package service

import (
	"context"
	"os"
	"time"

	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/pkg/apperror"
	"symptom-checker-be/internal/repository/specification"
	"symptom-checker-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context) error
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory) IAuthService {
	return &authService{
		uowFactory: uowFactory,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperror.Persistence("failed to check existing user", err)
	}
	if existing != nil {
		return nil, apperror.Validation("email", "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Unknown("failed to hash password", err)
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, apperror.Persistence("failed to create user", err)
	}

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperror.AuthenticationRequired("invalid credentials")
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperror.AuthenticationRequired("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.AuthenticationRequired("invalid credentials")
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, apperror.AuthenticationRequired("user account is blocked")
	}

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, apperror.Unknown("failed to sign token", err)
	}

	return &dto.LoginResponse{
		AccessToken: signedToken,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}, nil
}

// Logout is stateless; tokens simply expire. Kept as an endpoint so clients
// have a single call for session teardown.
func (s *authService) Logout(ctx context.Context) error {
	return nil
}
