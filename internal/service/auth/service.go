package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/auth"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	pkgjwt "github.com/shiftclock/shiftclock-backend-go/internal/pkg/jwt"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/webhook"
)

type AuthServiceImpl struct {
	user.UserRepository
	pkgjwt.Service
	client *webhook.Client
}

func NewAuthService(userRepository user.UserRepository, jwtService pkgjwt.Service, client *webhook.Client) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		client:         client,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService. The username field also accepts
// the account email.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.GetByUserName(ctx, req.UserName)
	if err == user.ErrUserNotFound {
		userData, err = a.GetByEmail(ctx, req.UserName)
	}
	if err != nil {
		if err == user.ErrUserNotFound {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("look up user: %w", err)
	}

	if userData.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(userData)
}

// Register implements auth.AuthService. The registration workflow owns
// the account creation; only a confirmed "done" response means the
// account exists, after which the tokens are issued against the local
// mirror row.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	exists, err := a.ExistsByUserNameOrEmail(ctx, req.UserName, req.Email)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return auth.TokenResponse{}, user.ErrUserNameExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("hash password: %w", err)
	}

	payload := map[string]interface{}{
		"name":      req.Name,
		"user_name": req.UserName,
		"email":     req.Email,
	}
	result, err := a.client.Send(ctx, webhook.EndpointRegistration, payload)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("send registration: %w", err)
	}
	if !result.Confirmed {
		return auth.TokenResponse{}, auth.ErrRegistrationDenied
	}

	created, err := a.Create(ctx, user.User{
		Name:         req.Name,
		UserName:     req.UserName,
		Email:        req.Email,
		Role:         user.RoleEmployee,
		PasswordHash: hash,
	})
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("create user: %w", err)
	}

	return a.issueTokens(created)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(_ context.Context, refreshToken string) error {
	if refreshToken != "" {
		a.RevokeToken(refreshToken)
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if req.RefreshToken == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if a.IsTokenRevoked(req.RefreshToken) {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	token, err := a.JWTAuth().Decode(req.RefreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return auth.AccessTokenResponse{}, auth.ErrTokenExpired
		}
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if tokenType, ok := token.Get("type"); !ok || tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	userID, ok := token.Get("user_id")
	if !ok {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.GetByID(ctx, userID.(string))
	if err != nil {
		if err == user.ErrUserNotFound {
			return auth.AccessTokenResponse{}, auth.ErrUserNotFound
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("look up user: %w", err)
	}

	accessToken, expiresAt, err := a.GenerateAccessToken(userData.ID, userData.UserName, userData.Name, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("create access token: %w", err)
	}

	return auth.AccessTokenResponse{AccessToken: accessToken, ExpiresAt: expiresAt}, nil
}

// StreamToken implements auth.AuthService.
func (a *AuthServiceImpl) StreamToken(_ context.Context, userID, _ string) (auth.StreamTokenResponse, error) {
	token, expiresIn, err := a.GenerateStreamToken(userID)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("create stream token: %w", err)
	}
	return auth.StreamTokenResponse{StreamToken: token, ExpiresIn: expiresIn}, nil
}

func (a *AuthServiceImpl) issueTokens(userData user.User) (auth.TokenResponse, error) {
	var resp auth.TokenResponse
	var err error

	resp.AccessToken, resp.AccessTokenExpiresAt, err = a.GenerateAccessToken(userData.ID, userData.UserName, userData.Name, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresAt, err = a.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("create refresh token: %w", err)
	}
	resp.User = userData.ToResponse()

	return resp, nil
}
