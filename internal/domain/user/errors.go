package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserNameExists         = errors.New("username already registered")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrInvalidEmailFormat     = errors.New("invalid email format")
	ErrInvalidPasswordLength  = errors.New("password must be at least 8 characters")
	ErrAdminAccessRequired    = errors.New("admin access required")
	ErrEmployeeOnly           = errors.New("employee account required")
	ErrProfileSaveUnconfirmed = errors.New("profile workflow did not confirm the save")
)
