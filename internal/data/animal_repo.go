package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/zoohub/zookeeper-hub/internal/data/database"
	"github.com/zoohub/zookeeper-hub/internal/data/pgxutil"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"
)

// AnimalRepo provides database operations for animal records.
type AnimalRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAnimalRepo creates a new AnimalRepo with real time provider.
func NewAnimalRepo(db *sql.DB) *AnimalRepo {
	return &AnimalRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewAnimalRepoWithTimeProvider creates a new AnimalRepo with a custom time provider (useful for tests).
func NewAnimalRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AnimalRepo {
	return &AnimalRepo{DB: db, timeProvider: tp}
}

const animalColumnsSQL = `id, name, species, age, enclosure, health_status, created_at, updated_at`

const animalGetByIDQuery = `
	SELECT ` + animalColumnsSQL + `
	FROM animals
	WHERE id = $1`

// Create inserts a new animal record.
func (r *AnimalRepo) Create(ctx context.Context, req *model.CreateAnimalRequest) (*model.Animal, error) {
	if req == nil {
		return nil, errors.New("create animal request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Animal
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO animals (name, species, age, enclosure, health_status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+animalColumnsSQL,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Species),
			req.Age,
			strings.TrimSpace(req.Enclosure),
			strings.TrimSpace(req.HealthStatus),
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Animal])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create animal: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an animal by ID.
func (r *AnimalRepo) GetByID(ctx context.Context, id string) (*model.Animal, error) {
	var animal model.Animal
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, animalGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		animal, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Animal])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to get animal by ID: %w", err)
	}
	return &animal, nil
}

// List retrieves animals with pagination, optional name/species filter,
// and sorting.
func (r *AnimalRepo) List(ctx context.Context, opts model.AnimalsListOptions) ([]*model.Animal, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(animalColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		q := "%" + strings.TrimSpace(*opts.Q) + "%"
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereRawCond("(name ILIKE $1 OR species ILIKE $2)", q, q),
		))
	}
	sortCol, sortDir := validateAnimalSortOptions(opts.Sort, opts.Dir)
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	query, args := database.BuildListQuery(database.NewListQueryOptions("animals", queryOpts...))

	var rowsOut []model.Animal
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Animal])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}

	res := make([]*model.Animal, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of an animal record.
func (r *AnimalRepo) Update(ctx context.Context, id string, req model.UpdateAnimalRequest) (*model.Animal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Animal
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		args = append(args, id)
		query := "UPDATE animals SET " + setClause +
			" WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + animalColumnsSQL
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Animal])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to update animal: %w", err)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating an animal.
func (r *AnimalRepo) buildUpdateClause(req model.UpdateAnimalRequest) (string, []any) {
	setParts := make([]string, 0, 6)
	args := make([]any, 0, 7)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Species != nil {
		setParts = append(setParts, fmt.Sprintf("species = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Species))
	}
	if req.Age != nil {
		setParts = append(setParts, fmt.Sprintf("age = $%d", nextIdx()))
		args = append(args, *req.Age)
	}
	if req.Enclosure != nil {
		setParts = append(setParts, fmt.Sprintf("enclosure = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Enclosure))
	}
	if req.HealthStatus != nil {
		setParts = append(setParts, fmt.Sprintf("health_status = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.HealthStatus))
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// Delete deletes an animal by ID.
func (r *AnimalRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM animals WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete animal: %w", err)
	}
	return rows > 0, nil
}

func animalColumns() []string {
	return []string{
		"id",
		"name",
		"species",
		"age",
		"enclosure",
		"health_status",
		"created_at",
		"updated_at",
	}
}

// validateAnimalSortOptions validates and returns safe sort column and direction.
func validateAnimalSortOptions(sort, dir string) (string, string) {
	sortCol := "created_at"
	sortDir := sortDirDesc

	if sort != "" {
		allowedSorts := map[string]string{
			"name":       "name",
			"created_at": "created_at",
		}
		if validSort, ok := allowedSorts[strings.ToLower(strings.TrimSpace(sort))]; ok {
			sortCol = validSort
		}
	}
	if dir != "" {
		allowedDirs := map[string]string{
			"asc":  sortDirAsc,
			"desc": sortDirDesc,
		}
		if validDir, ok := allowedDirs[strings.ToLower(strings.TrimSpace(dir))]; ok {
			sortDir = validDir
		}
	}
	return sortCol, sortDir
}
