package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Appointment maps to the appointment table. Doctor display fields are
// denormalized at booking time so patient-facing lists render without a join.
type Appointment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	Date            time.Time  `db:"date" json:"date"`
	Time            string     `db:"time" json:"time"`
	Service         string     `db:"service" json:"service"`
	Status          string     `db:"status" json:"status"`
	Notes           string     `db:"notes" json:"notes"`
	AppointmentFee  float64    `db:"appointment_fee" json:"appointment_fee"`
	DoctorName      string     `db:"doctor_name" json:"doctor_name"`
	DoctorSpecialty string     `db:"doctor_specialty" json:"doctor_specialty"`
	DoctorLocation  string     `db:"doctor_location" json:"doctor_location"`
	DoctorImage     string     `db:"doctor_image" json:"doctor_image"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
