package ambulance

import (
	"context"

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

const reqCols = `id, patient_id, pickup_location, destination, emergency_type, patient_name,
	contact_number, status, estimated_time, notes, created_at, updated_at`

func (r *repoPG) scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.PatientID, &req.PickupLocation, &req.Destination, &req.EmergencyType, &req.PatientName,
		&req.ContactNumber, &req.Status, &req.EstimatedTime, &req.Notes, &req.CreatedAt, &req.UpdatedAt)
	return &req, err
}

func (r *repoPG) Create(ctx context.Context, req *Request) error {
	req.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ambulance_request (id, patient_id, pickup_location, destination, emergency_type,
			patient_name, contact_number, status, estimated_time, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		req.ID, req.PatientID, req.PickupLocation, req.Destination, req.EmergencyType,
		req.PatientName, req.ContactNumber, req.Status, req.EstimatedTime, req.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	return r.scanRequest(r.conn(ctx).QueryRow(ctx, `SELECT `+reqCols+` FROM ambulance_request WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, req *Request) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE ambulance_request SET status=$2, estimated_time=$3, notes=$4, updated_at=NOW()
		WHERE id = $1`,
		req.ID, req.Status, req.EstimatedTime, req.Notes)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Request, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM ambulance_request WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+reqCols+` FROM ambulance_request WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Request
	for rows.Next() {
		req, err := r.scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, req)
	}
	return items, total, nil
}

func (r *repoPG) ListAll(ctx context.Context, limit, offset int) ([]*Request, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM ambulance_request`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+reqCols+` FROM ambulance_request ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Request
	for rows.Next() {
		req, err := r.scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, req)
	}
	return items, total, nil
}
