package ambulance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound              = errors.New("Ambulance request not found")
	ErrPatientProfileMissing = errors.New("Patient profile not found")
	ErrOperatorOnly          = errors.New("Only the ambulance operator may perform this action")
	ErrCancelForbidden       = errors.New("Unauthorized to cancel this request")
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusDispatched: true, StatusInTransit: true,
	StatusCompleted: true, StatusCancelled: true,
}

// ProfileDirectory answers profile-existence questions, implemented by the
// profile service.
type ProfileDirectory interface {
	HasPatientProfile(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RoleChecker reports a user's role. Implemented by the account service;
// operator endpoints are restricted to the Admin role.
type RoleChecker interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (string, error)
}

const operatorRole = "Admin"

type Service struct {
	requests Repository
	profiles ProfileDirectory
	roles    RoleChecker
}

func NewService(requests Repository, profiles ProfileDirectory, roles RoleChecker) *Service {
	return &Service{requests: requests, profiles: profiles, roles: roles}
}

type CreateRequest struct {
	PickupLocation string `json:"pickupLocation"`
	Destination    string `json:"destination"`
	EmergencyType  string `json:"emergencyType"`
	PatientName    string `json:"patientName"`
	ContactNumber  string `json:"contactNumber"`
	Notes          string `json:"notes"`
}

func (s *Service) Request(ctx context.Context, patientID uuid.UUID, req CreateRequest) (*Request, error) {
	if req.PickupLocation == "" || req.Destination == "" || req.EmergencyType == "" ||
		req.PatientName == "" || req.ContactNumber == "" {
		return nil, fmt.Errorf("Pickup location, destination, emergency type, patient name, and contact number are required")
	}

	ok, err := s.profiles.HasPatientProfile(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientProfileMissing
	}

	r := &Request{
		PatientID:      patientID,
		PickupLocation: req.PickupLocation,
		Destination:    req.Destination,
		EmergencyType:  req.EmergencyType,
		PatientName:    req.PatientName,
		ContactNumber:  req.ContactNumber,
		Status:         StatusPending,
		Notes:          req.Notes,
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Request, int, error) {
	return s.requests.ListByPatient(ctx, patientID, limit, offset)
}

// ListAll is the operator view over every request.
func (s *Service) ListAll(ctx context.Context, callerID uuid.UUID, limit, offset int) ([]*Request, int, error) {
	if err := s.requireOperator(ctx, callerID); err != nil {
		return nil, 0, err
	}
	return s.requests.ListAll(ctx, limit, offset)
}

// UpdateStatus sets status, estimated time and notes. Operator only.
func (s *Service) UpdateStatus(ctx context.Context, callerID, id uuid.UUID, status, estimatedTime string, notes *string) (*Request, error) {
	if err := s.requireOperator(ctx, callerID); err != nil {
		return nil, err
	}
	if !validStatuses[status] {
		return nil, fmt.Errorf("Valid status is required")
	}

	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	r.Status = status
	if estimatedTime != "" {
		r.EstimatedTime = estimatedTime
	}
	if notes != nil {
		r.Notes = *notes
	}
	if err := s.requests.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Cancel forces the status to Cancelled. Only the requesting patient may
// call it.
func (s *Service) Cancel(ctx context.Context, callerID, id uuid.UUID) (*Request, error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if r.PatientID != callerID {
		return nil, ErrCancelForbidden
	}

	r.Status = StatusCancelled
	if err := s.requests.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) requireOperator(ctx context.Context, callerID uuid.UUID) error {
	role, err := s.roles.RoleOf(ctx, callerID)
	if err != nil {
		return err
	}
	if role != operatorRole {
		return ErrOperatorOnly
	}
	return nil
}
