package profile

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Availability is a list of consultation slots. It accepts either a JSON
// array of strings or a single comma-delimited string, and normalizes both
// to trimmed non-empty tokens.
type Availability []string

func (a *Availability) UnmarshalJSON(data []byte) error {
	var tokens []string
	if err := json.Unmarshal(data, &tokens); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		tokens = strings.Split(s, ",")
	}

	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	*a = out
	return nil
}

// PatientProfile maps to the patient_profile table.
type PatientProfile struct {
	ID               uuid.UUID `db:"id" json:"id"`
	UserID           uuid.UUID `db:"user_id" json:"user_id"`
	Phone            string    `db:"phone" json:"phone"`
	Age              *int      `db:"age" json:"age"`
	Gender           string    `db:"gender" json:"gender"`
	Address          string    `db:"address" json:"address"`
	BloodGroup       string    `db:"blood_group" json:"bloodGroup"`
	EmergencyContact string    `db:"emergency_contact" json:"emergencyContact"`
	MedicalHistory   string    `db:"medical_history" json:"medicalHistory"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// DoctorProfile maps to the doctor_profile table.
type DoctorProfile struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	UserID          uuid.UUID    `db:"user_id" json:"user_id"`
	Specialty       string       `db:"specialty" json:"specialty"`
	Category        string       `db:"category" json:"category"`
	ExperienceYears int          `db:"experience_years" json:"experienceYears"`
	AppointmentFee  float64      `db:"appointment_fee" json:"appointmentFee"`
	Location        string       `db:"location" json:"location"`
	About           string       `db:"about" json:"about"`
	ImageURL        string       `db:"image_url" json:"imageUrl"`
	ContactNumber   string       `db:"contact_number" json:"contactNumber"`
	Availability    Availability `db:"availability" json:"availability"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// DiagnosticProfile maps to the diagnostic_profile table.
type DiagnosticProfile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PublicDoctor is a doctor profile with the owning user's public identity
// joined in, served on the unauthenticated doctor list.
type PublicDoctor struct {
	DoctorProfile
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}

// PublicDiagnostic is the unauthenticated diagnostic-center listing entry.
type PublicDiagnostic struct {
	DiagnosticProfile
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}
