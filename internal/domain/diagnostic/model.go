package diagnostic

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Report maps to the diagnostic_report table. Results is an opaque structured
// value stored as JSONB; its shape is owned by the diagnostic center.
type Report struct {
	ID           uuid.UUID              `db:"id" json:"id"`
	PatientID    uuid.UUID              `db:"patient_id" json:"patient_id"`
	DiagnosticID uuid.UUID              `db:"diagnostic_id" json:"diagnostic_id"`
	DoctorID     *uuid.UUID             `db:"doctor_id" json:"doctor_id,omitempty"`
	TestName     string                 `db:"test_name" json:"test_name"`
	TestType     string                 `db:"test_type" json:"test_type"`
	TestDate     time.Time              `db:"test_date" json:"test_date"`
	Results      map[string]interface{} `db:"results" json:"results"`
	ReportFile   string                 `db:"report_file" json:"report_file"`
	Status       string                 `db:"status" json:"status"`
	Notes        string                 `db:"notes" json:"notes"`
	CreatedAt    time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time              `db:"updated_at" json:"updated_at"`
}
