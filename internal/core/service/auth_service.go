package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
)

// AuthService implements registration, login with lockout, and admin user
// management. Token authentication itself happens in the HTTP middleware;
// this service only issues tokens.
type AuthService struct {
	repo      ports.UserRepository
	throttle  ports.LoginThrottle
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, throttle ports.LoginThrottle, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, throttle: throttle, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register creates an owner or client account. Admin accounts are never
// self-registrable.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	var fields []domain.FieldDetail
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		fields = append(fields, domain.FieldDetail{Field: "email", Message: "a valid email is required"})
	}
	if len(input.Password) < 8 {
		fields = append(fields, domain.FieldDetail{Field: "password", Message: "password must be at least 8 characters"})
	}
	if input.Role != domain.RoleOwner && input.Role != domain.RoleClient {
		fields = append(fields, domain.FieldDetail{Field: "role", Message: "role must be owner or client"})
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        strings.ToLower(input.Email),
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         input.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// Login verifies credentials and returns a signed token. Failed attempts feed
// the lockout throttle; a locked or deactivated account never reaches the
// password check result.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, domain.ErrUserInactive
	}

	// Throttle failures are logged and ignored: an unavailable throttle must
	// not lock everyone out of the platform.
	if locked, err := s.throttle.IsLocked(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("lockout check failed")
	} else if locked {
		return "", nil, domain.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		if locked, err := s.throttle.RecordFailure(ctx, user.ID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record login failure")
		} else if locked {
			s.logger.Warn().Str("user_id", user.ID).Msg("account locked after repeated failures")
			return "", nil, domain.ErrAccountLocked
		}
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to reset login throttle")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ListUsers(ctx context.Context, callerRole string, page, limit int) ([]*domain.User, int64, error) {
	if callerRole != domain.RoleAdmin {
		return nil, 0, domain.ErrForbidden
	}
	return s.repo.List(ctx, normalizePage(page), normalizeLimit(limit))
}

// ChangeRole is the only path a role can change through.
func (s *AuthService) ChangeRole(ctx context.Context, callerRole, userID, role string) error {
	if callerRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if !domain.ValidRole(role) {
		return domain.NewValidationError("role", "unknown role")
	}
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.SetRole(ctx, userID, role)
}

// SetUserActive flips the soft deactivation flag.
func (s *AuthService) SetUserActive(ctx context.Context, callerRole, userID string, active bool) error {
	if callerRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, userID, active)
}
