package auth

import (
	"context"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	StreamToken(ctx context.Context, userID, userName string) (StreamTokenResponse, error)
}
