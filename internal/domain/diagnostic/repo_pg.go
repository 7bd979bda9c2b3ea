package diagnostic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hospitex/hospitex/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const reportCols = `id, patient_id, diagnostic_id, doctor_id, test_name, test_type, test_date,
	results, report_file, status, notes, created_at, updated_at`

func (r *repoPG) scanReport(row pgx.Row) (*Report, error) {
	var rep Report
	var results []byte
	err := row.Scan(&rep.ID, &rep.PatientID, &rep.DiagnosticID, &rep.DoctorID, &rep.TestName, &rep.TestType, &rep.TestDate,
		&results, &rep.ReportFile, &rep.Status, &rep.Notes, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(results, &rep.Results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return &rep, nil
}

func (r *repoPG) Create(ctx context.Context, rep *Report) error {
	rep.ID = uuid.New()
	if rep.Results == nil {
		rep.Results = map[string]interface{}{}
	}
	results, err := json.Marshal(rep.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO diagnostic_report (id, patient_id, diagnostic_id, doctor_id, test_name, test_type,
			test_date, results, report_file, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		rep.ID, rep.PatientID, rep.DiagnosticID, rep.DoctorID, rep.TestName, rep.TestType,
		rep.TestDate, results, rep.ReportFile, rep.Status, rep.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	return r.scanReport(r.conn(ctx).QueryRow(ctx, `SELECT `+reportCols+` FROM diagnostic_report WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, rep *Report) error {
	results, err := json.Marshal(rep.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		UPDATE diagnostic_report SET results=$2, report_file=$3, status=$4, notes=$5, updated_at=NOW()
		WHERE id = $1`,
		rep.ID, results, rep.ReportFile, rep.Status, rep.Notes)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Report, int, error) {
	return r.list(ctx, `patient_id`, patientID, limit, offset)
}

func (r *repoPG) ListByDiagnostic(ctx context.Context, diagnosticID uuid.UUID, limit, offset int) ([]*Report, int, error) {
	return r.list(ctx, `diagnostic_id`, diagnosticID, limit, offset)
}

func (r *repoPG) list(ctx context.Context, ownerCol string, ownerID uuid.UUID, limit, offset int) ([]*Report, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM diagnostic_report WHERE `+ownerCol+` = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+reportCols+` FROM diagnostic_report WHERE `+ownerCol+` = $1 ORDER BY test_date DESC LIMIT $2 OFFSET $3`, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Report
	for rows.Next() {
		rep, err := r.scanReport(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rep)
	}
	return items, total, nil
}
