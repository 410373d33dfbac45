package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByUserName(ctx context.Context, userName string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, req UpdateProfileRequest) error
	ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error)
}
