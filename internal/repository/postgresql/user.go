package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `id, name, user_name, email, role, password_hash, phone, avatar, created_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.UserName,
		&u.Email,
		&u.Role,
		&u.PasswordHash,
		&u.Phone,
		&u.Avatar,
		&u.CreatedAt,
	)
	return u, err
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := r.db.Pool

	selectQuery := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(q.QueryRow(ctx, selectQuery, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// GetByUserName implements user.UserRepository.
func (r *userRepositoryImpl) GetByUserName(ctx context.Context, userName string) (user.User, error) {
	q := r.db.Pool

	selectQuery := `SELECT ` + userColumns + ` FROM users WHERE user_name = $1`

	u, err := scanUser(q.QueryRow(ctx, selectQuery, userName))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := r.db.Pool

	selectQuery := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(q.QueryRow(ctx, selectQuery, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := r.db.Pool

	selectQuery := `SELECT ` + userColumns + ` FROM users ORDER BY name`

	rows, err := q.Query(ctx, selectQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// ListByRole implements user.UserRepository.
func (r *userRepositoryImpl) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	q := r.db.Pool

	selectQuery := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY name`

	rows, err := q.Query(ctx, selectQuery, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := r.db.Pool

	insertQuery := `
		INSERT INTO users (name, user_name, email, role, password_hash, phone, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	u, err := scanUser(q.QueryRow(ctx, insertQuery,
		newUser.Name,
		newUser.UserName,
		newUser.Email,
		string(newUser.Role),
		newUser.PasswordHash,
		newUser.Phone,
		newUser.Avatar,
	))
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, req user.UpdateProfileRequest) error {
	q := r.db.Pool

	updateQuery := `
		UPDATE users
		SET name = COALESCE($1, name),
		    email = COALESCE($2, email),
		    phone = COALESCE($3, phone),
		    avatar = COALESCE($4, avatar)
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, updateQuery, req.Name, req.Email, req.Phone, req.Avatar, req.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// ExistsByUserNameOrEmail implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error) {
	q := r.db.Pool

	selectQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE user_name = $1 OR email = $2)`

	var exists bool
	if err := q.QueryRow(ctx, selectQuery, userName, email).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
