package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound              = errors.New("Report not found")
	ErrPatientProfileMissing = errors.New("Patient profile not found")
	ErrCenterNotFound        = errors.New("Diagnostic center not found")
	ErrUpdateForbidden       = errors.New("Unauthorized to update this report")
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusInProgress: true, StatusCompleted: true,
}

// ProfileDirectory answers profile-existence questions, implemented by the
// profile service.
type ProfileDirectory interface {
	HasPatientProfile(ctx context.Context, userID uuid.UUID) (bool, error)
	HasDiagnosticProfile(ctx context.Context, userID uuid.UUID) (bool, error)
}

type Service struct {
	reports  Repository
	profiles ProfileDirectory
}

func NewService(reports Repository, profiles ProfileDirectory) *Service {
	return &Service{reports: reports, profiles: profiles}
}

type BookRequest struct {
	DiagnosticID uuid.UUID  `json:"diagnosticId"`
	DoctorID     *uuid.UUID `json:"doctorId"`
	TestName     string     `json:"testName"`
	TestType     string     `json:"testType"`
	TestDate     time.Time  `json:"testDate"`
	Notes        string     `json:"notes"`
}

func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req BookRequest) (*Report, error) {
	if req.DiagnosticID == uuid.Nil || req.TestName == "" || req.TestType == "" || req.TestDate.IsZero() {
		return nil, fmt.Errorf("Diagnostic center, test name, type, and date are required")
	}

	ok, err := s.profiles.HasPatientProfile(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientProfileMissing
	}

	ok, err = s.profiles.HasDiagnosticProfile(ctx, req.DiagnosticID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCenterNotFound
	}

	r := &Report{
		PatientID:    patientID,
		DiagnosticID: req.DiagnosticID,
		DoctorID:     req.DoctorID,
		TestName:     req.TestName,
		TestType:     req.TestType,
		TestDate:     req.TestDate,
		Results:      map[string]interface{}{},
		Status:       StatusPending,
		Notes:        req.Notes,
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	r, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Report, int, error) {
	return s.reports.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListForDiagnosticCenter(ctx context.Context, diagnosticID uuid.UUID, limit, offset int) ([]*Report, int, error) {
	return s.reports.ListByDiagnostic(ctx, diagnosticID, limit, offset)
}

type UpdateRequest struct {
	Results    map[string]interface{} `json:"results"`
	ReportFile *string                `json:"reportFile"`
	Status     string                 `json:"status"`
	Notes      *string                `json:"notes"`
}

// Update applies results, report file, status and notes. Only the owning
// diagnostic center may call it. A status outside the enum is ignored, not
// rejected.
func (s *Service) Update(ctx context.Context, callerID, id uuid.UUID, req UpdateRequest) (*Report, error) {
	r, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if r.DiagnosticID != callerID {
		return nil, ErrUpdateForbidden
	}

	if req.Results != nil {
		r.Results = req.Results
	}
	if req.ReportFile != nil {
		r.ReportFile = *req.ReportFile
	}
	if req.Status != "" && validStatuses[req.Status] {
		r.Status = req.Status
	}
	if req.Notes != nil {
		r.Notes = *req.Notes
	}

	if err := s.reports.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
