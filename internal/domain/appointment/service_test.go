package appointment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mocks --

type mockRepo struct {
	appts map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, len(result), nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.DoctorID == doctorID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

type mockProfileDir struct {
	patients map[uuid.UUID]bool
	doctors  map[uuid.UUID]bool
}

func newMockProfileDir() *mockProfileDir {
	return &mockProfileDir{patients: make(map[uuid.UUID]bool), doctors: make(map[uuid.UUID]bool)}
}

func (m *mockProfileDir) HasPatientProfile(_ context.Context, id uuid.UUID) (bool, error) {
	return m.patients[id], nil
}

func (m *mockProfileDir) HasDoctorProfile(_ context.Context, id uuid.UUID) (bool, error) {
	return m.doctors[id], nil
}

func newTestService() (*Service, *mockRepo, *mockProfileDir) {
	repo := newMockRepo()
	profiles := newMockProfileDir()
	return NewService(repo, profiles), repo, profiles
}

func validBookRequest(doctorID uuid.UUID) BookRequest {
	return BookRequest{
		DoctorID: doctorID,
		Date:     time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Time:     "10:00 AM",
		Service:  "General Checkup",
	}
}

// -- Tests --

func TestBook(t *testing.T) {
	svc, repo, profiles := newTestService()
	ctx := context.Background()

	patientID, doctorID := uuid.New(), uuid.New()
	profiles.patients[patientID] = true
	profiles.doctors[doctorID] = true

	a, err := svc.Book(ctx, patientID, validBookRequest(doctorID))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if a.Status != StatusPending {
		t.Errorf("expected status Pending, got %q", a.Status)
	}
	if a.PatientID != patientID || a.DoctorID != doctorID {
		t.Error("owner references not set")
	}
	if len(repo.appts) != 1 {
		t.Errorf("expected 1 appointment persisted, got %d", len(repo.appts))
	}
}

func TestBookMissingFields(t *testing.T) {
	svc, _, profiles := newTestService()
	patientID := uuid.New()
	profiles.patients[patientID] = true

	req := validBookRequest(uuid.New())
	req.Service = ""
	if _, err := svc.Book(context.Background(), patientID, req); err == nil {
		t.Fatal("expected error for missing service")
	}
}

func TestBookWithoutPatientProfile(t *testing.T) {
	svc, _, profiles := newTestService()
	doctorID := uuid.New()
	profiles.doctors[doctorID] = true

	_, err := svc.Book(context.Background(), uuid.New(), validBookRequest(doctorID))
	if !errors.Is(err, ErrPatientProfileMissing) {
		t.Fatalf("expected ErrPatientProfileMissing, got %v", err)
	}
}

func TestBookUnknownDoctor(t *testing.T) {
	svc, _, profiles := newTestService()
	patientID := uuid.New()
	profiles.patients[patientID] = true

	_, err := svc.Book(context.Background(), patientID, validBookRequest(uuid.New()))
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestUpdateStatusByDoctor(t *testing.T) {
	svc, _, profiles := newTestService()
	ctx := context.Background()

	patientID, doctorID := uuid.New(), uuid.New()
	profiles.patients[patientID] = true
	profiles.doctors[doctorID] = true

	a, err := svc.Book(ctx, patientID, validBookRequest(doctorID))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, doctorID, a.ID, StatusConfirmed, "see you then")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != StatusConfirmed {
		t.Errorf("expected Confirmed, got %q", updated.Status)
	}
	if updated.Notes != "see you then" {
		t.Errorf("notes not applied: %q", updated.Notes)
	}
}

func TestUpdateStatusByWrongDoctor(t *testing.T) {
	svc, repo, profiles := newTestService()
	ctx := context.Background()

	patientID, doctorID := uuid.New(), uuid.New()
	profiles.patients[patientID] = true
	profiles.doctors[doctorID] = true

	a, err := svc.Book(ctx, patientID, validBookRequest(doctorID))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	_, err = svc.UpdateStatus(ctx, uuid.New(), a.ID, StatusConfirmed, "")
	if !errors.Is(err, ErrUpdateForbidden) {
		t.Fatalf("expected ErrUpdateForbidden, got %v", err)
	}
	if repo.appts[a.ID].Status != StatusPending {
		t.Error("status must remain unchanged on forbidden update")
	}
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	svc, _, profiles := newTestService()
	ctx := context.Background()

	patientID, doctorID := uuid.New(), uuid.New()
	profiles.patients[patientID] = true
	profiles.doctors[doctorID] = true

	a, err := svc.Book(ctx, patientID, validBookRequest(doctorID))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, doctorID, a.ID, "Postponed", ""); err == nil {
		t.Fatal("expected error for status outside the enum")
	}
}

func TestCancelByPatientAndDoctor(t *testing.T) {
	svc, _, profiles := newTestService()
	ctx := context.Background()

	patientID, doctorID := uuid.New(), uuid.New()
	profiles.patients[patientID] = true
	profiles.doctors[doctorID] = true

	for _, caller := range []uuid.UUID{patientID, doctorID} {
		a, err := svc.Book(ctx, patientID, validBookRequest(doctorID))
		if err != nil {
			t.Fatalf("book: %v", err)
		}
		cancelled, err := svc.Cancel(ctx, caller, a.ID)
		if err != nil {
			t.Fatalf("cancel by %s: %v", caller, err)
		}
		if cancelled.Status != StatusCancelled {
			t.Errorf("expected Cancelled, got %q", cancelled.Status)
		}
	}
}

func TestCancelByStranger(t *testing.T) {
	svc, _, profiles := newTestService()
	ctx := context.Background()

	patientID, doctorID := uuid.New(), uuid.New()
	profiles.patients[patientID] = true
	profiles.doctors[doctorID] = true

	a, err := svc.Book(ctx, patientID, validBookRequest(doctorID))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if _, err := svc.Cancel(ctx, uuid.New(), a.ID); !errors.Is(err, ErrCancelForbidden) {
		t.Fatalf("expected ErrCancelForbidden, got %v", err)
	}
}

func TestMarkCompleted(t *testing.T) {
	svc, repo, profiles := newTestService()
	ctx := context.Background()

	patientID, doctorID := uuid.New(), uuid.New()
	profiles.patients[patientID] = true
	profiles.doctors[doctorID] = true

	a, err := svc.Book(ctx, patientID, validBookRequest(doctorID))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := svc.MarkCompleted(ctx, a.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if repo.appts[a.ID].Status != StatusCompleted {
		t.Errorf("expected Completed, got %q", repo.appts[a.ID].Status)
	}
}

func TestListForPatient(t *testing.T) {
	svc, _, profiles := newTestService()
	ctx := context.Background()

	patientID, doctorID := uuid.New(), uuid.New()
	profiles.patients[patientID] = true
	profiles.doctors[doctorID] = true

	for i := 0; i < 3; i++ {
		if _, err := svc.Book(ctx, patientID, validBookRequest(doctorID)); err != nil {
			t.Fatalf("book %d: %v", i, err)
		}
	}

	items, total, err := svc.ListForPatient(ctx, patientID, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Errorf("expected 3 appointments, got %d (total %d)", len(items), total)
	}
}
