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

// MedicalLogRepo provides database operations for medical logs.
type MedicalLogRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMedicalLogRepo creates a new MedicalLogRepo with real time provider.
func NewMedicalLogRepo(db *sql.DB) *MedicalLogRepo {
	return &MedicalLogRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewMedicalLogRepoWithTimeProvider creates a new MedicalLogRepo with a custom time provider (useful for tests).
func NewMedicalLogRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MedicalLogRepo {
	return &MedicalLogRepo{DB: db, timeProvider: tp}
}

const medicalLogColumnsSQL = `id, animal_id, date, diagnosis, treatment, follow_up_required, notes, vet_id, created_at`

// Create inserts a new medical log. The animal must exist; the foreign
// key violation maps to ErrAnimalNotFound.
func (r *MedicalLogRepo) Create(ctx context.Context, req *model.CreateMedicalLogRequest, vetID string) (*model.MedicalLog, error) {
	if req == nil {
		return nil, errors.New("create medical log request is required")
	}
	if vetID == "" {
		return nil, errors.New("vet ID is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.MedicalLog
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO medical_logs (animal_id, date, diagnosis, treatment, follow_up_required, notes, vet_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+medicalLogColumnsSQL,
			req.AnimalID,
			req.Date.UTC(),
			strings.TrimSpace(req.Diagnosis),
			strings.TrimSpace(req.Treatment),
			req.FollowUpRequired,
			req.Notes,
			vetID,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MedicalLog])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to create medical log: %w", err)
	}
	return &out, nil
}

// List retrieves medical logs, newest visit first, with optional animal
// filter.
func (r *MedicalLogRepo) List(ctx context.Context, opts model.MedicalLogsListOptions) ([]*model.MedicalLog, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(medicalLogColumns()...),
		database.WithOrderBy("date", sortDirDesc),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.AnimalID != nil && strings.TrimSpace(*opts.AnimalID) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("animal_id", database.Equal, strings.TrimSpace(*opts.AnimalID)),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("medical_logs", queryOpts...))

	var rowsOut []model.MedicalLog
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.MedicalLog])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list medical logs: %w", err)
	}

	res := make([]*model.MedicalLog, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

func medicalLogColumns() []string {
	return []string{
		"id",
		"animal_id",
		"date",
		"diagnosis",
		"treatment",
		"follow_up_required",
		"notes",
		"vet_id",
		"created_at",
	}
}
