package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/zoohub/zookeeper-hub/internal/data/database"
	"github.com/zoohub/zookeeper-hub/internal/data/pgxutil"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
)

// FeedingLogRepo provides database operations for feeding logs.
type FeedingLogRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewFeedingLogRepo creates a new FeedingLogRepo with real time provider.
func NewFeedingLogRepo(db *sql.DB) *FeedingLogRepo {
	return &FeedingLogRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewFeedingLogRepoWithTimeProvider creates a new FeedingLogRepo with a custom time provider (useful for tests).
func NewFeedingLogRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *FeedingLogRepo {
	return &FeedingLogRepo{DB: db, timeProvider: tp}
}

const feedingLogColumnsSQL = `id, animal_name, food_type, quantity, notes, keeper_id, feeding_time, created_at`

// Create inserts a new feeding log.
func (r *FeedingLogRepo) Create(ctx context.Context, req *model.CreateFeedingLogRequest, keeperID string) (*model.FeedingLog, error) {
	if req == nil {
		return nil, errors.New("create feeding log request is required")
	}
	if keeperID == "" {
		return nil, errors.New("keeper ID is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	feedingTime := req.FeedingTime
	if feedingTime.IsZero() {
		feedingTime = r.timeProvider.Now()
	}

	var out model.FeedingLog
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO feeding_logs (animal_name, food_type, quantity, notes, keeper_id, feeding_time, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+feedingLogColumnsSQL,
			strings.TrimSpace(req.AnimalName),
			strings.TrimSpace(req.FoodType),
			strings.TrimSpace(req.Quantity),
			req.Notes,
			keeperID,
			feedingTime.UTC(),
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.FeedingLog])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create feeding log: %w", err)
	}
	return &out, nil
}

// List retrieves feeding logs, newest feeding first, with optional animal
// name filter.
func (r *FeedingLogRepo) List(ctx context.Context, opts model.FeedingLogsListOptions) ([]*model.FeedingLog, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(feedingLogColumns()...),
		database.WithOrderBy("feeding_time", sortDirDesc),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.AnimalName != nil && strings.TrimSpace(*opts.AnimalName) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("animal_name", database.Equal, strings.TrimSpace(*opts.AnimalName)),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("feeding_logs", queryOpts...))

	var rowsOut []model.FeedingLog
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.FeedingLog])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list feeding logs: %w", err)
	}

	res := make([]*model.FeedingLog, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

func feedingLogColumns() []string {
	return []string{
		"id",
		"animal_name",
		"food_type",
		"quantity",
		"notes",
		"keeper_id",
		"feeding_time",
		"created_at",
	}
}
