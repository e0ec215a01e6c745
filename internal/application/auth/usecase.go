package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

const minPasswordLen = 8

// AuthUseCase casos de uso de autenticación: registro, login, refresh, validación y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   jwt.PairConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg jwt.PairConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, now: time.Now}
}

// Register crea un usuario (password con bcrypt) y devuelve su primer par de tokens.
// ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.TokenResponse, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// Login verifica email/password y emite el par de tokens.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	now := uc.now()
	if err := uc.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	return uc.issue(user)
}

// Refresh canjea un refresh token válido por un par nuevo.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.RefreshSecret, in.RefreshToken, jwt.TypeRefresh)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.issue(user)
}

// Validate informa si un access token es válido; un token inválido no es un error.
func (uc *AuthUseCase) Validate(in dto.ValidateRequest) *dto.ValidateResponse {
	claims, err := jwt.Parse(uc.jwtCfg.AccessSecret, in.Token, jwt.TypeAccess)
	if err != nil {
		return &dto.ValidateResponse{Valid: false}
	}
	out := &dto.ValidateResponse{Valid: true, UserID: claims.UserID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out
}

// Profile devuelve el usuario autenticado.
func (uc *AuthUseCase) Profile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.TokenResponse, error) {
	pair, err := jwt.GeneratePair(uc.jwtCfg, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(uc.jwtCfg.AccessExpMinutes) * 60,
		User:         toUserResponse(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
