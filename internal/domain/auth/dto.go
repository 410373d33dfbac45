package auth

import (
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserName) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_name",
			Message: "user_name is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RegisterRequest struct {
	Name            string `json:"name"`
	UserName        string `json:"user_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.UserName) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_name",
			Message: "user_name is required",
		})
	} else if !validator.IsValidUserName(r.UserName) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_name",
			Message: "user_name may only contain letters, numbers, dots, underscores, and hyphens",
		})
	}
	if len(r.UserName) < 3 {
		errs = append(errs, validator.ValidationError{
			Field:   "user_name",
			Message: "user_name must be at least 3 characters long",
		})
	}
	if len(r.UserName) > 50 {
		errs = append(errs, validator.ValidationError{
			Field:   "user_name",
			Message: "user_name must not exceed 50 characters",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long",
		})
	}
	if validator.IsEmpty(r.ConfirmPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_password",
			Message: "confirm_password is required",
		})
	} else if r.ConfirmPassword != r.Password {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_password",
			Message: "password and confirm_password do not match",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken           string            `json:"access_token"`
	AccessTokenExpiresAt  int64             `json:"expires_at"`
	RefreshToken          string            `json:"-"`
	RefreshTokenExpiresAt int64             `json:"-"`
	User                  user.UserResponse `json:"user"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type StreamTokenResponse struct {
	StreamToken string `json:"stream_token"`
	ExpiresIn   int    `json:"expires_in"`
}
