package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"carshare/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// ExpiredIDs returns the ids of active rows in the given table whose end_time
// has passed. table must be "rentals" or "rides".
func (r *JobRepository) ExpiredIDs(ctx context.Context, table string) ([]int, error) {
	if table != "rentals" && table != "rides" {
		return nil, fmt.Errorf("unsupported table %q", table)
	}
	query := `SELECT id FROM ` + table + ` WHERE status = $1 AND end_time < NOW()`
	rows, err := r.DB.QueryContext(ctx, query, db.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("error querying expired %s: %w", table, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning %s id: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating %s rows: %w", table, err)
	}
	return ids, nil
}

// UpdateStatuses sets status on the given rows and bumps updated_at.
func (r *JobRepository) UpdateStatuses(ctx context.Context, table string, ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	if table != "rentals" && table != "rides" {
		return fmt.Errorf("unsupported table %q", table)
	}
	query := `UPDATE ` + table + ` SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.ExecContext(ctx, query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating %s statuses: %w", table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		zap.S().Warnf("could not get rows affected: %v", err)
	} else {
		zap.S().Infof("updated status for %d %s to %q", rowsAffected, table, newStatus)
	}
	return nil
}
