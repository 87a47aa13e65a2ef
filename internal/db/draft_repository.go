package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/customloads/internal/model"
)

// DraftRepository persists the custom load library.
type DraftRepository struct {
	db *pgxpool.Pool
}

// NewDraftRepository creates a new DraftRepository.
func NewDraftRepository(db *pgxpool.Pool) *DraftRepository {
	return &DraftRepository{db: db}
}

// LoadDrafts returns every stored load in library order.
func (r *DraftRepository) LoadDrafts(ctx context.Context) ([]model.DraftRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, label, designation, is_locked, powder_load,
		       ammo_template, bullet_template, gunpowder
		FROM custom_loads
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying custom loads: %w", err)
	}
	defer rows.Close()

	records := make([]model.DraftRecord, 0, 16)
	index := make(map[string]int)
	for rows.Next() {
		var rec model.DraftRecord
		var powder int16
		if err := rows.Scan(&rec.Name, &rec.Label, &rec.Designation, &rec.IsLocked, &powder,
			&rec.AmmoTemplate, &rec.BulletTemplate, &rec.Gunpowder); err != nil {
			return nil, fmt.Errorf("scanning custom load row: %w", err)
		}
		rec.PowderLoad = int(powder)
		rec.Parts = make(map[string]string)
		index[rec.Name] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating custom load rows: %w", err)
	}

	partRows, err := r.db.Query(ctx, `SELECT load_name, part, material FROM custom_load_parts`)
	if err != nil {
		return nil, fmt.Errorf("querying custom load parts: %w", err)
	}
	defer partRows.Close()

	for partRows.Next() {
		var name, part, material string
		if err := partRows.Scan(&name, &part, &material); err != nil {
			return nil, fmt.Errorf("scanning custom load part row: %w", err)
		}
		i, ok := index[name]
		if !ok {
			continue
		}
		records[i].Parts[part] = material
	}
	if err := partRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating custom load part rows: %w", err)
	}

	return records, nil
}

// SaveDraftsTx replaces the stored library within a transaction.
func (r *DraftRepository) SaveDraftsTx(ctx context.Context, tx pgx.Tx, records []model.DraftRecord) error {
	if _, err := tx.Exec(ctx, `DELETE FROM custom_loads`); err != nil {
		return fmt.Errorf("deleting old custom loads: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	loads := make([][]any, 0, len(records))
	var parts [][]any
	for i, rec := range records {
		loads = append(loads, []any{
			rec.Name, int32(i), rec.Label, rec.Designation, rec.IsLocked, int16(rec.PowderLoad),
			rec.AmmoTemplate, rec.BulletTemplate, rec.Gunpowder,
		})
		for part, material := range rec.Parts {
			parts = append(parts, []any{rec.Name, part, material})
		}
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"custom_loads"},
		[]string{"name", "position", "label", "designation", "is_locked", "powder_load",
			"ammo_template", "bullet_template", "gunpowder"},
		pgx.CopyFromRows(loads),
	)
	if err != nil {
		return fmt.Errorf("inserting custom loads: %w", err)
	}

	if len(parts) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"custom_load_parts"},
			[]string{"load_name", "part", "material"},
			pgx.CopyFromRows(parts),
		)
		if err != nil {
			return fmt.Errorf("inserting custom load parts: %w", err)
		}
	}

	slog.Debug("saved custom loads", "count", len(records), "parts", len(parts))
	return nil
}

// SaveDrafts replaces the stored library (standalone, creates own transaction).
func (r *DraftRepository) SaveDrafts(ctx context.Context, records []model.DraftRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "error", err)
		}
	}()

	if err := r.SaveDraftsTx(ctx, tx, records); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
