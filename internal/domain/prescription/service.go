package prescription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hospitex/hospitex/internal/platform/db"
)

var (
	ErrNotFound             = errors.New("Prescription not found")
	ErrDoctorProfileMissing = errors.New("Doctor profile not found")
	ErrUpdateForbidden      = errors.New("Unauthorized to update this prescription")
)

// ProfileDirectory answers profile-existence questions, implemented by the
// profile service.
type ProfileDirectory interface {
	HasDoctorProfile(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AppointmentCompleter marks an appointment Completed. Implemented by the
// appointment service; the call runs inside the creation transaction.
type AppointmentCompleter interface {
	MarkCompleted(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	prescriptions Repository
	profiles      ProfileDirectory
	appointments  AppointmentCompleter
	runner        db.Runner
}

func NewService(prescriptions Repository, profiles ProfileDirectory, appointments AppointmentCompleter, runner db.Runner) *Service {
	return &Service{prescriptions: prescriptions, profiles: profiles, appointments: appointments, runner: runner}
}

type CreateRequest struct {
	PatientID     uuid.UUID    `json:"patientId"`
	AppointmentID *uuid.UUID   `json:"appointmentId"`
	Medications   []Medication `json:"medications"`
	Diagnosis     string       `json:"diagnosis"`
	Notes         string       `json:"notes"`
	FollowUpDate  *time.Time   `json:"followUpDate"`
}

// Create writes the prescription and, when an appointment is linked, marks
// that appointment Completed in the same transaction.
func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req CreateRequest) (*Prescription, error) {
	if req.PatientID == uuid.Nil || len(req.Medications) == 0 {
		return nil, fmt.Errorf("Patient ID and medications are required")
	}
	for i, m := range req.Medications {
		if m.Name == "" || m.Dosage == "" || m.Frequency == "" || m.Duration == "" {
			return nil, fmt.Errorf("medication %d: name, dosage, frequency and duration are required", i+1)
		}
	}

	ok, err := s.profiles.HasDoctorProfile(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDoctorProfileMissing
	}

	p := &Prescription{
		PatientID:     req.PatientID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Medications:   req.Medications,
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
		FollowUpDate:  req.FollowUpDate,
	}

	err = s.runner.WithTx(ctx, func(ctx context.Context) error {
		if err := s.prescriptions.Create(ctx, p); err != nil {
			return err
		}
		if req.AppointmentID != nil {
			return s.appointments.MarkCompleted(ctx, *req.AppointmentID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.ListByDoctor(ctx, doctorID, limit, offset)
}

type UpdateRequest struct {
	Medications  []Medication `json:"medications"`
	Diagnosis    *string      `json:"diagnosis"`
	Notes        *string      `json:"notes"`
	FollowUpDate *time.Time   `json:"followUpDate"`
}

// Update applies the provided fields. Only the creating doctor may call it.
func (s *Service) Update(ctx context.Context, callerID, id uuid.UUID, req UpdateRequest) (*Prescription, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if p.DoctorID != callerID {
		return nil, ErrUpdateForbidden
	}

	if len(req.Medications) > 0 {
		p.Medications = req.Medications
	}
	if req.Diagnosis != nil {
		p.Diagnosis = *req.Diagnosis
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	if req.FollowUpDate != nil {
		p.FollowUpDate = req.FollowUpDate
	}

	if err := s.prescriptions.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
