package service

import (
	"context"
	"errors"
	"strings"

	"commissionhub/config"
	"commissionhub/internal/auth"
	"commissionhub/internal/domain"
	"commissionhub/internal/models"
	"commissionhub/internal/repository"

	"gorm.io/gorm"
)

const minPasswordLength = 6

var (
	ErrEmailExists  = domain.Conflict("Email already registered")
	ErrInvalidCreds = domain.Unauthorized("Invalid email or password")
)

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (in *RegisterInput) Validate() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return domain.Validation("A valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return domain.Validation("Password must be at least 6 characters")
	}
	if in.Role != domain.RoleUser && in.Role != domain.RoleSeller {
		return domain.Validation("Role must be user or seller")
	}
	return nil
}

// Session is what a successful register or login returns.
type Session struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	_, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Name:         in.Name,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCreds
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCreds
	}
	return s.session(u)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, domain.Unauthorized("Invalid refresh token")
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *AuthService) session(u *models.User) (*Session, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, AccessToken: access, RefreshToken: refresh}, nil
}
