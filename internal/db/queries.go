package db

import (
	"context"
	"fmt"
	"time"

	"github.com/veskel/cityscan/internal/models"
)

// InsertRun stores one processed snapshot together with its category counts.
func (db *DB) InsertRun(run *models.RunRecord, categories []models.CategoryCount) error {
	query := `
		INSERT INTO runs (
			created_at, source_file, era, total, classified, unclassified,
			skipped, kit_buildings, expected_one_up, expected_renovation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(context.Background(), query,
		createdAt.Format("2006-01-02 15:04:05"),
		run.SourceFile,
		run.Era,
		run.Total,
		run.Classified,
		run.Unclassified,
		run.Skipped,
		run.KitBuildings,
		run.ExpectedOneUp,
		run.ExpectedRenovation,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}
	run.ID = id

	for _, c := range categories {
		_, err := tx.ExecContext(context.Background(),
			"INSERT INTO run_categories (run_id, category, count) VALUES (?, ?, ?)",
			id, c.Category, c.Count,
		)
		if err != nil {
			return fmt.Errorf("failed to insert category count: %w", err)
		}
	}

	return tx.Commit()
}

// GetRecentRuns returns the most recent runs, newest first.
func (db *DB) GetRecentRuns(limit int) ([]models.RunRecord, error) {
	query := `
		SELECT id, created_at, source_file, era, total, classified,
			   unclassified, skipped, kit_buildings,
			   expected_one_up, expected_renovation
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []models.RunRecord
	for rows.Next() {
		var run models.RunRecord
		err := rows.Scan(
			&run.ID,
			&run.CreatedAt,
			&run.SourceFile,
			&run.Era,
			&run.Total,
			&run.Classified,
			&run.Unclassified,
			&run.Skipped,
			&run.KitBuildings,
			&run.ExpectedOneUp,
			&run.ExpectedRenovation,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRunCategories returns the stored category counts for a run, sorted by
// category name.
func (db *DB) GetRunCategories(runID int64) ([]models.CategoryCount, error) {
	query := `
		SELECT category, count
		FROM run_categories
		WHERE run_id = ?
		ORDER BY category
	`

	rows, err := db.QueryContext(context.Background(), query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []models.CategoryCount
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// GetTotalsTrend returns classified entity totals for the last runs in
// chronological order, for charting.
func (db *DB) GetTotalsTrend(limit int) ([]float64, error) {
	return db.trend("classified", limit)
}

// GetFragmentsTrend returns combined expected fragments per cycle for the
// last runs in chronological order.
func (db *DB) GetFragmentsTrend(limit int) ([]float64, error) {
	return db.trend("expected_one_up + expected_renovation", limit)
}

func (db *DB) trend(expr string, limit int) ([]float64, error) {
	query := fmt.Sprintf(`
		SELECT value FROM (
			SELECT id, %s AS value
			FROM runs
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		) ORDER BY id ASC
	`, expr)

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan trend value: %w", err)
		}
		values = append(values, v)
	}

	return values, rows.Err()
}
