package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nihi-lo/tempura/internal/models"
)

var (
	ErrMaterializationNotFound = errors.New("materialization not found")
	ErrInvalidMaterialization  = errors.New("invalid materialization")
)

// MaterializationRepository persists materialization history.
type MaterializationRepository struct {
	db *DB
}

// NewMaterializationRepository creates a new MaterializationRepository.
func NewMaterializationRepository(db *DB) *MaterializationRepository {
	return &MaterializationRepository{db: db}
}

// MaterializationQuery filters List results.
type MaterializationQuery struct {
	Template string
	Status   models.MaterializationStatus
	Limit    int
}

// Create inserts a record, assigning an ID and timestamp when missing.
func (r *MaterializationRepository) Create(ctx context.Context, rec *models.Materialization) error {
	if rec == nil || rec.Template == "" || rec.Destination == "" || rec.Status == "" {
		return ErrInvalidMaterialization
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	} else {
		rec.CreatedAt = rec.CreatedAt.UTC()
	}

	var variablesJSON *string
	if len(rec.Variables) > 0 {
		data, err := json.Marshal(rec.Variables)
		if err != nil {
			return fmt.Errorf("failed to marshal variables: %w", err)
		}
		s := string(data)
		variablesJSON = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO materializations (
			id, template, destination, status, file_count, error_kind, error,
			variables_json, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.Template,
		rec.Destination,
		string(rec.Status),
		rec.FileCount,
		nullString(rec.ErrorKind),
		nullString(rec.Error),
		variablesJSON,
		rec.Duration.Milliseconds(),
		rec.CreatedAt.Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert materialization: %w", err)
	}
	return nil
}

// Get returns the record with id.
func (r *MaterializationRepository) Get(ctx context.Context, id string) (*models.Materialization, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, template, destination, status, file_count, error_kind, error,
			variables_json, duration_ms, created_at
		FROM materializations WHERE id = ?
	`, id)

	rec, err := scanMaterialization(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMaterializationNotFound
	}
	return rec, err
}

// List returns records newest first.
func (r *MaterializationRepository) List(ctx context.Context, q MaterializationQuery) ([]*models.Materialization, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, template, destination, status, file_count, error_kind, error,
		variables_json, duration_ms, created_at
		FROM materializations WHERE 1=1`
	args := []any{}
	if q.Template != "" {
		query += ` AND template = ?`
		args = append(args, q.Template)
	}
	if q.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(q.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query materializations: %w", err)
	}
	defer rows.Close()

	var out []*models.Materialization
	for rows.Next() {
		rec, err := scanMaterialization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating materializations: %w", err)
	}
	return out, nil
}

// Fixed-width so created_at sorts lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMaterialization(row rowScanner) (*models.Materialization, error) {
	var rec models.Materialization
	var status, createdAt string
	var errorKind, errorMsg, variablesJSON sql.NullString
	var durationMs int64

	err := row.Scan(
		&rec.ID,
		&rec.Template,
		&rec.Destination,
		&status,
		&rec.FileCount,
		&errorKind,
		&errorMsg,
		&variablesJSON,
		&durationMs,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan materialization: %w", err)
	}

	rec.Status = models.MaterializationStatus(status)
	rec.ErrorKind = errorKind.String
	rec.Error = errorMsg.String
	rec.Duration = time.Duration(durationMs) * time.Millisecond

	if variablesJSON.Valid && variablesJSON.String != "" {
		if err := json.Unmarshal([]byte(variablesJSON.String), &rec.Variables); err != nil {
			return nil, fmt.Errorf("failed to parse variables: %w", err)
		}
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	rec.CreatedAt = ts

	return &rec, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
