package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
	log "github.com/sirupsen/logrus"
)

const uniqueViolation = "23505"

const userColumns = `id, uid, username, display_name, date_of_birth, lifespan_years, timezone, created_at, updated_at, deleted_at`

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateUser(ctx context.Context, userId int, user User) (User, error)
	SoftDeleteUser(ctx context.Context, id int, deletedAt time.Time) error
	RestoreUser(ctx context.Context, id int) error
	ListUsers(ctx context.Context, filter ListFilter) ([]User, error)
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
}

type UserRepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

func (u *UserRepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	query := `INSERT INTO users (uid, username, display_name, date_of_birth, lifespan_years, timezone)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int
	err := u.db.QueryRow(ctx, query,
		user.Uid,
		user.Username,
		user.DisplayName,
		dateParam(user.DateOfBirth),
		lifespanParam(user.LifespanYears),
		user.Settings.Timezone,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrUsernameTaken, user.Username)
		}
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *UserRepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(u.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("user with id %d not found", id)
		return User{}, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	user, err := scanUser(u.db.QueryRow(ctx, query, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("user with uid %s not found", uid)
		return User{}, fmt.Errorf("%w: uid %s", ErrUserNotFound, uid)
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) UpdateUser(ctx context.Context, userId int, user User) (User, error) {
	query := `UPDATE users SET display_name = $1, date_of_birth = $2, lifespan_years = $3, timezone = $4, updated_at = now()
				WHERE id = $5 AND deleted_at IS NULL RETURNING ` + userColumns
	updated, err := scanUser(u.db.QueryRow(ctx, query,
		user.DisplayName,
		dateParam(user.DateOfBirth),
		lifespanParam(user.LifespanYears),
		user.Settings.Timezone,
		userId,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Info("no rows affected of updating user")
		return User{}, fmt.Errorf("%w: id %d", ErrUserNotFound, userId)
	} else if err != nil {
		log.Errorf("failed to update user: %v", err)
		return User{}, err
	}
	return updated, nil
}

func (u *UserRepoImpl) SoftDeleteUser(ctx context.Context, id int, deletedAt time.Time) error {
	query := `UPDATE users SET deleted_at = $1, updated_at = now() WHERE id = $2 AND deleted_at IS NULL`
	result, err := u.db.Exec(ctx, query, deletedAt, id)
	if err != nil {
		log.Errorf("failed to delete user: %v", err)
		return err
	}
	if result.RowsAffected() == 0 {
		log.Info("no rows affected of deleting user")
		return fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	return nil
}

func (u *UserRepoImpl) RestoreUser(ctx context.Context, id int) error {
	query := `UPDATE users SET deleted_at = NULL, updated_at = now() WHERE id = $1 AND deleted_at IS NOT NULL`
	result, err := u.db.Exec(ctx, query, id)
	if err != nil {
		log.Errorf("failed to restore user: %v", err)
		return err
	}
	if result.RowsAffected() == 0 {
		log.Info("no rows affected of restoring user")
		return fmt.Errorf("%w: deleted user with id %d", ErrUserNotFound, id)
	}
	return nil
}

func (u *UserRepoImpl) ListUsers(ctx context.Context, filter ListFilter) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users
				WHERE ($1 OR deleted_at IS NULL)
				  AND ($2 = '' OR username ILIKE '%' || $2 || '%' OR display_name ILIKE '%' || $2 || '%')
				ORDER BY id
				LIMIT $3 OFFSET $4`
	rows, err := u.db.Query(ctx, query, filter.IncludeDeleted, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		log.Errorf("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0, filter.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Errorf("failed to scan user: %v", err)
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over rows: %v", err)
		return nil, err
	}
	return users, nil
}

func (u *UserRepoImpl) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE username = $1`
	var count int
	err := u.db.QueryRow(ctx, query, username).Scan(&count)
	if err != nil {
		log.Errorf("failed to check username availability: %v", err)
		return false, err
	}
	return count == 0, nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	var dateOfBirth pgtype.Date
	var lifespan pgtype.Int4
	var deletedAt pgtype.Timestamptz
	err := row.Scan(
		&user.Id,
		&user.Uid,
		&user.Username,
		&user.DisplayName,
		&dateOfBirth,
		&lifespan,
		&user.Settings.Timezone,
		&user.CreatedAt,
		&user.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return User{}, err
	}
	if dateOfBirth.Valid {
		d := weeks.DateOf(dateOfBirth.Time)
		user.DateOfBirth = &d
	}
	if lifespan.Valid {
		user.LifespanYears = int(lifespan.Int32)
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		user.DeletedAt = &t
	}
	return user, nil
}

func dateParam(d *weeks.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time(), Valid: true}
}

func lifespanParam(years int) pgtype.Int4 {
	if years == 0 {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(years), Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
