package service

import (
	"context"
	"time"

	"grid-portal-be/internal/config"
	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/pkg/logger"
	"grid-portal-be/internal/pkg/serverutils"
	"grid-portal-be/internal/repository/memory"
	"grid-portal-be/internal/repository/specification"
	"grid-portal-be/internal/repository/unitofwork"
	"grid-portal-be/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionID string)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	sessions   *memory.SessionRepository
	cfg        config.AuthConfig
	logger     logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.SessionRepository,
	cfg config.AuthConfig,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		sessions:   sessions,
		cfg:        cfg,
		logger:     log,
	}
}

// Login checks the static admin table first, then client users. Both
// paths compare bcrypt hashes so a timing probe cannot tell which table
// matched.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	principal, hash := s.lookup(ctx, req.Email)
	if principal == nil {
		// Burn a comparison anyway so unknown emails cost the same.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(req.Password))
		return nil, apperr.Unauthenticated("invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthenticated("invalid credentials", nil)
	}

	sessionID := uuid.NewString()
	s.sessions.Save(sessionID, principal)

	now := time.Now()
	claims := serverutils.PortalClaims{
		Email:     principal.Email,
		Name:      principal.Name,
		Role:      principal.Role,
		ClientId:  principal.ClientID,
		SessionId: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.SessionTTLHours) * time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, apperr.Unavailable("could not issue token", err)
	}

	s.logger.Info("AuthService", "login", map[string]interface{}{
		"email": principal.Email,
		"role":  principal.Role,
	})

	return &dto.LoginResponse{
		Token: token,
		User: dto.AuthUser{
			Email:    principal.Email,
			Name:     principal.Name,
			Role:     principal.Role,
			ClientId: principal.ClientID,
		},
	}, nil
}

func (s *authService) lookup(ctx context.Context, email string) (*entity.Principal, string) {
	for _, admin := range s.cfg.Admins {
		if admin.Email == email {
			return &entity.Principal{
				Email: admin.Email,
				Name:  admin.Name,
				Role:  entity.RoleAdmin,
			}, admin.PasswordHash
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.ClientUserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		s.logger.Error("AuthService", "user lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, ""
	}
	if user == nil {
		return nil, ""
	}
	return &entity.Principal{
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
		ClientID: user.ClientName,
	}, user.PasswordHash
}

func (s *authService) Logout(ctx context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}
