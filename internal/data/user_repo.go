package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zoohub/zookeeper-hub/internal/data/database"
	"github.com/zoohub/zookeeper-hub/internal/data/pgxutil"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
)

// UserRepo provides database operations for staff users. The users table
// doubles as the role-record collection.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

const userColumnsSQL = `id, email, first_name, last_name, role, password_hash, created_at, updated_at`

const (
	userGetByIDQuery = `
		SELECT ` + userColumnsSQL + `
		FROM users
		WHERE id = $1`

	userGetByEmailQuery = `
		SELECT ` + userColumnsSQL + `
		FROM users
		WHERE lower(email) = lower($1)`
)

// Create inserts a new staff user. Emails are unique case-insensitively.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateStaffUserRequest, passwordHash string) (*model.StaffUser, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.StaffUser
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (email, first_name, last_name, role, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+userColumnsSQL,
			strings.ToLower(strings.TrimSpace(req.Email)),
			strings.TrimSpace(req.FirstName),
			strings.TrimSpace(req.LastName),
			string(req.Role),
			passwordHash,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.StaffUser])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a staff user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.StaffUser, error) {
	return r.getByQuery(ctx, userGetByIDQuery, "failed to get user by ID", id)
}

// GetByEmail retrieves a staff user by email, case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.StaffUser, error) {
	return r.getByQuery(ctx, userGetByEmailQuery, "failed to get user by email", strings.TrimSpace(email))
}

// List retrieves staff users with pagination and optional email filter.
func (r *UserRepo) List(ctx context.Context, opts model.UsersListOptions) ([]*model.StaffUser, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(userColumns()...),
		database.WithOrderBy("created_at", sortDirDesc),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("email", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("users", queryOpts...))

	var rowsOut []model.StaffUser
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.StaffUser])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	res := make([]*model.StaffUser, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdateRole sets the role record for a staff user. An empty role clears
// the assignment.
func (r *UserRepo) UpdateRole(ctx context.Context, id string, role string) (*model.StaffUser, error) {
	var out model.StaffUser
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE users SET role = $1, updated_at = $2
			WHERE id = $3
			RETURNING `+userColumnsSQL,
			role,
			r.timeProvider.Now().UTC(),
			id,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.StaffUser])
		return err
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// Delete removes a staff user by ID.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return rows > 0, nil
}

func userColumns() []string {
	return []string{
		"id",
		"email",
		"first_name",
		"last_name",
		"role",
		"password_hash",
		"created_at",
		"updated_at",
	}
}

func (r *UserRepo) getByQuery(ctx context.Context, q string, errMsg string, args ...any) (*model.StaffUser, error) {
	var user model.StaffUser
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.StaffUser])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &user, nil
}

func (r *UserRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrEmailExists
	}
	return err
}
