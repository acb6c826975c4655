package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

const userColumns = `id, username, email, full_name, password_hash, avatar_url, cover_image_url, refresh_token, created_at, updated_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, email, full_name, password_hash, avatar_url, cover_image_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.FullName, user.PasswordHash, user.AvatarURL, user.CoverImageURL,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUsernameOrEmail(ctx context.Context, userName, email string) (*models.User, error) {
	if userName == "" && email == "" {
		return nil, common.ErrorNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		 ORDER BY created_at
		 LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, query, userName, email))
}

// UpdateFields builds a single UPDATE statement, so the condition and the new
// values are applied atomically by the database.
// An empty update only reads the row, still honoring cond.
func (r *PostgresRepository) UpdateFields(ctx context.Context, id string, upd models.UserUpdate, cond *models.UpdateCondition) (*models.User, error) {
	if upd.IsEmpty() {
		query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
		args := []any{id}
		if cond != nil {
			query += ` AND refresh_token = $2`
			args = append(args, cond.RefreshToken)
		}
		return scanUser(r.db.QueryRowContext(ctx, query, args...))
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.FullName != nil {
		add("full_name", *upd.FullName)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.PasswordHash != nil {
		add("password_hash", *upd.PasswordHash)
	}
	if upd.AvatarURL != nil {
		add("avatar_url", *upd.AvatarURL)
	}
	if upd.CoverImageURL != nil {
		add("cover_image_url", *upd.CoverImageURL)
	}
	if upd.RefreshToken != nil {
		add("refresh_token", *upd.RefreshToken)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	where := fmt.Sprintf("id = $%d", len(args))
	if cond != nil {
		args = append(args, cond.RefreshToken)
		where += fmt.Sprintf(" AND refresh_token = $%d", len(args))
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE ` + where + ` RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, args...))
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.UserName, &u.Email, &u.FullName, &u.PasswordHash,
		&u.AvatarURL, &u.CoverImageURL, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if constraint, ok := dbx.UniqueViolation(err); ok {
		return fmt.Errorf("%w: %s", common.ErrConflict, constraint)
	}
	return fmt.Errorf("db error: %w", err)
}
