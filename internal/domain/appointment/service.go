package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound              = errors.New("Appointment not found")
	ErrPatientProfileMissing = errors.New("Patient profile not found")
	ErrDoctorNotFound        = errors.New("Doctor not found")
	ErrUpdateForbidden       = errors.New("Unauthorized to update this appointment")
	ErrCancelForbidden       = errors.New("Unauthorized to cancel this appointment")
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusConfirmed: true, StatusCompleted: true, StatusCancelled: true,
}

// ProfileDirectory answers profile-existence questions. Implemented by the
// profile service; declared here so this package stays import-free of it.
type ProfileDirectory interface {
	HasPatientProfile(ctx context.Context, userID uuid.UUID) (bool, error)
	HasDoctorProfile(ctx context.Context, userID uuid.UUID) (bool, error)
}

type Service struct {
	appointments Repository
	profiles     ProfileDirectory
}

func NewService(appointments Repository, profiles ProfileDirectory) *Service {
	return &Service{appointments: appointments, profiles: profiles}
}

// BookRequest carries the booking payload. Doctor display fields are
// snapshotted from the client's doctor listing.
type BookRequest struct {
	DoctorID        uuid.UUID `json:"doctorId"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	Service         string    `json:"service"`
	Notes           string    `json:"notes"`
	AppointmentFee  float64   `json:"appointmentFee"`
	DoctorName      string    `json:"doctorName"`
	DoctorSpecialty string    `json:"doctorSpecialty"`
	DoctorLocation  string    `json:"doctorLocation"`
	DoctorImage     string    `json:"doctorImage"`
}

func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req BookRequest) (*Appointment, error) {
	if req.DoctorID == uuid.Nil || req.Date.IsZero() || req.Time == "" || req.Service == "" {
		return nil, fmt.Errorf("Doctor, date, time, and service are required")
	}

	ok, err := s.profiles.HasPatientProfile(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientProfileMissing
	}

	ok, err = s.profiles.HasDoctorProfile(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	a := &Appointment{
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		Date:            req.Date,
		Time:            req.Time,
		Service:         req.Service,
		Status:          StatusPending,
		Notes:           req.Notes,
		AppointmentFee:  req.AppointmentFee,
		DoctorName:      req.DoctorName,
		DoctorSpecialty: req.DoctorSpecialty,
		DoctorLocation:  req.DoctorLocation,
		DoctorImage:     req.DoctorImage,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDoctor(ctx, doctorID, limit, offset)
}

// UpdateStatus sets the appointment status. Only the appointment's doctor may
// call it. Any enum value may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, callerID, id uuid.UUID, status, notes string) (*Appointment, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("Valid status is required")
	}

	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if a.DoctorID != callerID {
		return nil, ErrUpdateForbidden
	}

	a.Status = status
	if notes != "" {
		a.Notes = notes
	}
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Cancel forces the status to Cancelled. The referencing patient or doctor
// may call it.
func (s *Service) Cancel(ctx context.Context, callerID, id uuid.UUID) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if a.PatientID != callerID && a.DoctorID != callerID {
		return nil, ErrCancelForbidden
	}

	a.Status = StatusCancelled
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// MarkCompleted sets the status to Completed without an ownership check.
// The prescription service calls it inside its creation transaction after
// verifying the caller is a doctor.
func (s *Service) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	a.Status = StatusCompleted
	return s.appointments.Update(ctx, a)
}
