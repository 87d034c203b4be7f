package service

import (
	"context"

	"suiquiz/internal/common"
	"suiquiz/internal/common/security"
	"suiquiz/internal/domain/model"
	"suiquiz/internal/platform/config"
)

// AuthService issues admin tokens. Players never authenticate here: their
// identity is the wallet address they sign transactions with. The single
// admin credential comes from configuration.
type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrInvalidArgument
	}

	cfg := config.AppConfig
	if cfg.AdminPasswordHash == "" {
		// Admin surface disabled until a credential is configured.
		return nil, common.ErrUnauthorized
	}
	if req.Username != cfg.AdminUsername || !security.CheckPasswordHash(req.Password, cfg.AdminPasswordHash) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(cfg.AdminUsername, model.RoleAdmin)
	if err != nil {
		return nil, common.Errorf("failed to generate token: %w", err)
	}
	return &LoginResponse{Token: token}, nil
}
