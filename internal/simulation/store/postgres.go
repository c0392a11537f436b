package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	id "github.com/Degagemain/degage-sub000/pkg/domain"
	"github.com/Degagemain/degage-sub000/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// PostgresStore persists runs in the simulation_runs table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed run store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, run *models.Run) error {
	if run == nil {
		return fmt.Errorf("run is required")
	}
	input, err := json.Marshal(run.Input)
	if err != nil {
		return fmt.Errorf("marshal input: %w", err)
	}
	steps, err := json.Marshal(run.Result.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	figures, err := json.Marshal(run.Result.Figures)
	if err != nil {
		return fmt.Errorf("marshal figures: %w", err)
	}
	var carInfo sql.NullString
	if run.Result.CarInfo != nil {
		raw, err := json.Marshal(run.Result.CarInfo)
		if err != nil {
			return fmt.Errorf("marshal car info: %w", err)
		}
		carInfo = sql.NullString{String: string(raw), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO simulation_runs
			(id, input, result_code, rejection_reason, steps, car_info, figures, locale, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(run.ID),
		string(input),
		string(run.Result.ResultCode),
		nullString(run.Result.RejectionReason),
		string(steps),
		carInfo,
		string(figures),
		run.Locale,
		run.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("run %s: %w", run.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

const runColumns = `id, input, result_code, rejection_reason, steps, car_info, figures, locale, created_at`

func (s *PostgresStore) FindByID(ctx context.Context, runID id.RunID) (*models.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM simulation_runs WHERE id = $1`, uuid.UUID(runID))
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find run: %w", err)
	}
	return run, nil
}

// List returns runs newest first; an empty code filter matches every run.
func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.Run, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	codes := make([]string, 0, len(filter.ResultCodes))
	for _, c := range filter.ResultCodes {
		codes = append(codes, string(c))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM simulation_runs
		WHERE cardinality($1::text[]) = 0 OR result_code = ANY($1::text[])
		ORDER BY created_at DESC, id
		LIMIT $2`, pq.Array(codes), limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.Run, error) {
	var (
		runID      uuid.UUID
		input      []byte
		resultCode string
		reason     sql.NullString
		steps      []byte
		carInfo    []byte
		figures    []byte
		run        models.Run
	)
	if err := row.Scan(&runID, &input, &resultCode, &reason, &steps, &carInfo, &figures, &run.Locale, &run.CreatedAt); err != nil {
		return nil, err
	}

	run.ID = id.RunID(runID)
	run.Result.ResultCode = models.ResultCode(resultCode)
	run.Result.RejectionReason = reason.String
	if err := json.Unmarshal(input, &run.Input); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if err := json.Unmarshal(steps, &run.Result.Steps); err != nil {
		return nil, fmt.Errorf("decode steps: %w", err)
	}
	if err := json.Unmarshal(figures, &run.Result.Figures); err != nil {
		return nil, fmt.Errorf("decode figures: %w", err)
	}
	if len(carInfo) > 0 {
		var info models.CarInfo
		if err := json.Unmarshal(carInfo, &info); err != nil {
			return nil, fmt.Errorf("decode car info: %w", err)
		}
		run.Result.CarInfo = &info
	}
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
