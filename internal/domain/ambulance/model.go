package ambulance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "Pending"
	StatusDispatched = "Dispatched"
	StatusInTransit  = "In Transit"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

// Request maps to the ambulance_request table.
type Request struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	PickupLocation string    `db:"pickup_location" json:"pickup_location"`
	Destination    string    `db:"destination" json:"destination"`
	EmergencyType  string    `db:"emergency_type" json:"emergency_type"`
	PatientName    string    `db:"patient_name" json:"patient_name"`
	ContactNumber  string    `db:"contact_number" json:"contact_number"`
	Status         string    `db:"status" json:"status"`
	EstimatedTime  string    `db:"estimated_time" json:"estimated_time"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
