package profile

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

const patientCols = `id, user_id, phone, age, gender, address, blood_group,
	emergency_contact, medical_history, created_at, updated_at`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*PatientProfile, error) {
	var p PatientProfile
	err := row.Scan(&p.ID, &p.UserID, &p.Phone, &p.Age, &p.Gender, &p.Address, &p.BloodGroup,
		&p.EmergencyContact, &p.MedicalHistory, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *PatientProfile) error {
	p.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO patient_profile (id, user_id, phone, age, gender, address, blood_group,
			emergency_contact, medical_history)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.UserID, p.Phone, p.Age, p.Gender, p.Address, p.BloodGroup,
		p.EmergencyContact, p.MedicalHistory)
	return err
}

func (r *patientRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*PatientProfile, error) {
	return r.scanPatient(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+patientCols+` FROM patient_profile WHERE user_id = $1`, userID))
}

func (r *patientRepoPG) Update(ctx context.Context, p *PatientProfile) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE patient_profile SET phone=$2, age=$3, gender=$4, address=$5, blood_group=$6,
			emergency_contact=$7, medical_history=$8, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Phone, p.Age, p.Gender, p.Address, p.BloodGroup, p.EmergencyContact, p.MedicalHistory)
	return err
}

func (r *patientRepoPG) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM patient_profile WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

const doctorCols = `id, user_id, specialty, category, experience_years, appointment_fee,
	location, about, image_url, contact_number, availability, created_at, updated_at`

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*DoctorProfile, error) {
	var d DoctorProfile
	var availability []string
	err := row.Scan(&d.ID, &d.UserID, &d.Specialty, &d.Category, &d.ExperienceYears, &d.AppointmentFee,
		&d.Location, &d.About, &d.ImageURL, &d.ContactNumber, &availability, &d.CreatedAt, &d.UpdatedAt)
	d.Availability = availability
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *DoctorProfile) error {
	d.ID = uuid.New()
	if d.Category == "" {
		d.Category = "general"
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO doctor_profile (id, user_id, specialty, category, experience_years, appointment_fee,
			location, about, image_url, contact_number, availability)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		d.ID, d.UserID, d.Specialty, d.Category, d.ExperienceYears, d.AppointmentFee,
		d.Location, d.About, d.ImageURL, d.ContactNumber, []string(d.Availability))
	return err
}

func (r *doctorRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error) {
	return r.scanDoctor(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor_profile WHERE user_id = $1`, userID))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *DoctorProfile) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE doctor_profile SET specialty=$2, category=$3, experience_years=$4, appointment_fee=$5,
			location=$6, about=$7, image_url=$8, contact_number=$9, availability=$10, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Specialty, d.Category, d.ExperienceYears, d.AppointmentFee,
		d.Location, d.About, d.ImageURL, d.ContactNumber, []string(d.Availability))
	return err
}

func (r *doctorRepoPG) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM doctor_profile WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}

func (r *doctorRepoPG) ListPublic(ctx context.Context, limit, offset int) ([]*PublicDoctor, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM doctor_profile`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT d.id, d.user_id, d.specialty, d.category, d.experience_years, d.appointment_fee,
			d.location, d.about, d.image_url, d.contact_number, d.availability, d.created_at, d.updated_at,
			u.username, u.email
		FROM doctor_profile d
		JOIN app_user u ON u.id = d.user_id
		ORDER BY d.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*PublicDoctor
	for rows.Next() {
		var pd PublicDoctor
		var availability []string
		if err := rows.Scan(&pd.ID, &pd.UserID, &pd.Specialty, &pd.Category, &pd.ExperienceYears, &pd.AppointmentFee,
			&pd.Location, &pd.About, &pd.ImageURL, &pd.ContactNumber, &availability, &pd.CreatedAt, &pd.UpdatedAt,
			&pd.Username, &pd.Email); err != nil {
			return nil, 0, err
		}
		pd.Availability = availability
		items = append(items, &pd)
	}
	return items, total, nil
}

// =========== Diagnostic Repository ===========

type diagnosticRepoPG struct{ pool *pgxpool.Pool }

func NewDiagnosticRepoPG(pool *pgxpool.Pool) DiagnosticRepository { return &diagnosticRepoPG{pool: pool} }

func (r *diagnosticRepoPG) Create(ctx context.Context, d *DiagnosticProfile) error {
	d.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `INSERT INTO diagnostic_profile (id, user_id) VALUES ($1,$2)`, d.ID, d.UserID)
	return err
}

func (r *diagnosticRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*DiagnosticProfile, error) {
	var d DiagnosticProfile
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, user_id, created_at, updated_at FROM diagnostic_profile WHERE user_id = $1`, userID).
		Scan(&d.ID, &d.UserID, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *diagnosticRepoPG) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM diagnostic_profile WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}

func (r *diagnosticRepoPG) ListPublic(ctx context.Context, limit, offset int) ([]*PublicDiagnostic, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM diagnostic_profile`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT d.id, d.user_id, d.created_at, d.updated_at, u.username, u.email
		FROM diagnostic_profile d
		JOIN app_user u ON u.id = d.user_id
		ORDER BY d.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*PublicDiagnostic
	for rows.Next() {
		var pd PublicDiagnostic
		if err := rows.Scan(&pd.ID, &pd.UserID, &pd.CreatedAt, &pd.UpdatedAt, &pd.Username, &pd.Email); err != nil {
			return nil, 0, err
		}
		items = append(items, &pd)
	}
	return items, total, nil
}
