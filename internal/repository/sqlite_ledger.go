package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/chronicle/internal/db"
	"github.com/alexanderramin/chronicle/internal/domain"
)

// ledgerColumns is the canonical SELECT column list for ledger_records.
const ledgerColumns = `key, description, confidence, notes, model, created_at`

// SQLiteLedgerRepo implements LedgerRepo against a DBTX, so a run can scope
// it to a transaction and commit a whole batch's appends atomically.
type SQLiteLedgerRepo struct {
	db db.DBTX
}

// NewSQLiteLedgerRepo creates a new SQLiteLedgerRepo.
func NewSQLiteLedgerRepo(conn db.DBTX) *SQLiteLedgerRepo {
	return &SQLiteLedgerRepo{db: conn}
}

func (r *SQLiteLedgerRepo) Append(ctx context.Context, rec *domain.LedgerRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO ledger_records
		(key, entry_index, sub_index, description, confidence, notes, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.Key.String(),
		rec.Key.EntryIndex,
		rec.Key.SubIndex,
		rec.Description,
		string(rec.Confidence),
		rec.Notes,
		rec.Model,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending ledger record %s: %w", rec.Key, err)
	}
	return nil
}

func (r *SQLiteLedgerRepo) ListAll(ctx context.Context) ([]*domain.LedgerRecord, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_records ORDER BY created_at, key`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing ledger records: %w", err)
	}
	defer rows.Close()

	var out []*domain.LedgerRecord
	for rows.Next() {
		rec, err := scanLedgerRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger records: %w", err)
	}
	return out, nil
}

func (r *SQLiteLedgerRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ledger_records`); err != nil {
		return fmt.Errorf("clearing ledger: %w", err)
	}
	return nil
}

func scanLedgerRecord(rows *sql.Rows) (*domain.LedgerRecord, error) {
	var (
		key, description, confidence, notes, model, createdAt string
	)
	if err := rows.Scan(&key, &description, &confidence, &notes, &model, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning ledger record: %w", err)
	}

	// Legacy records carry a bare entry index; ParseWorkItemKey reads those
	// as sub-index 0.
	parsedKey, err := domain.ParseWorkItemKey(key)
	if err != nil {
		return nil, err
	}

	rec := &domain.LedgerRecord{
		Key:         parsedKey,
		Description: description,
		Confidence:  domain.Confidence(confidence),
		Notes:       notes,
		Model:       model,
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}
