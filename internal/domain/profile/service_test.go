package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hospitex/hospitex/internal/domain/account"
	"github.com/hospitex/hospitex/internal/domain/appointment"
	"github.com/hospitex/hospitex/internal/domain/diagnostic"
	"github.com/hospitex/hospitex/internal/domain/prescription"
)

// -- Mock Repositories --

type mockUserRepo struct {
	users map[uuid.UUID]*account.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*account.User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *account.User) error {
	u.ID = uuid.New()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*account.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*account.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockUserRepo) Update(_ context.Context, u *account.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) seed(role string) *account.User {
	u := &account.User{ID: uuid.New(), Username: "user", Email: "user@x.com", Role: role}
	m.users[u.ID] = u
	return u
}

type mockPatientRepo struct {
	profiles map[uuid.UUID]*PatientProfile // keyed by user id
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{profiles: make(map[uuid.UUID]*PatientProfile)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *PatientProfile) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.profiles[p.UserID] = p
	return nil
}

func (m *mockPatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*PatientProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *PatientProfile) error {
	m.profiles[p.UserID] = p
	return nil
}

func (m *mockPatientRepo) Exists(_ context.Context, userID uuid.UUID) (bool, error) {
	_, ok := m.profiles[userID]
	return ok, nil
}

type mockDoctorRepo struct {
	profiles map[uuid.UUID]*DoctorProfile
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{profiles: make(map[uuid.UUID]*DoctorProfile)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *DoctorProfile) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	if d.Category == "" {
		d.Category = "general"
	}
	m.profiles[d.UserID] = d
	return nil
}

func (m *mockDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*DoctorProfile, error) {
	d, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

func (m *mockDoctorRepo) Update(_ context.Context, d *DoctorProfile) error {
	m.profiles[d.UserID] = d
	return nil
}

func (m *mockDoctorRepo) Exists(_ context.Context, userID uuid.UUID) (bool, error) {
	_, ok := m.profiles[userID]
	return ok, nil
}

func (m *mockDoctorRepo) ListPublic(_ context.Context, limit, offset int) ([]*PublicDoctor, int, error) {
	var out []*PublicDoctor
	for _, d := range m.profiles {
		out = append(out, &PublicDoctor{DoctorProfile: *d, Username: "doc", Email: "doc@x.com"})
	}
	return out, len(out), nil
}

type mockDiagnosticRepo struct {
	profiles map[uuid.UUID]*DiagnosticProfile
}

func newMockDiagnosticRepo() *mockDiagnosticRepo {
	return &mockDiagnosticRepo{profiles: make(map[uuid.UUID]*DiagnosticProfile)}
}

func (m *mockDiagnosticRepo) Create(_ context.Context, d *DiagnosticProfile) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	m.profiles[d.UserID] = d
	return nil
}

func (m *mockDiagnosticRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*DiagnosticProfile, error) {
	d, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return d, nil
}

func (m *mockDiagnosticRepo) Exists(_ context.Context, userID uuid.UUID) (bool, error) {
	_, ok := m.profiles[userID]
	return ok, nil
}

func (m *mockDiagnosticRepo) ListPublic(_ context.Context, limit, offset int) ([]*PublicDiagnostic, int, error) {
	var out []*PublicDiagnostic
	for _, d := range m.profiles {
		out = append(out, &PublicDiagnostic{DiagnosticProfile: *d, Username: "lab", Email: "lab@x.com"})
	}
	return out, len(out), nil
}

type mockAppointmentRepo struct {
	items   []*appointment.Appointment
	listErr error
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	m.items = append(m.items, a)
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return nil, fmt.Errorf("not found")
}

func (m *mockAppointmentRepo) Update(_ context.Context, a *appointment.Appointment) error {
	return nil
}

func (m *mockAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*appointment.Appointment, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var out []*appointment.Appointment
	for _, a := range m.items {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (m *mockAppointmentRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, limit, offset int) ([]*appointment.Appointment, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var out []*appointment.Appointment
	for _, a := range m.items {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

type mockPrescriptionRepo struct {
	items []*prescription.Prescription
}

func (m *mockPrescriptionRepo) Create(_ context.Context, p *prescription.Prescription) error {
	m.items = append(m.items, p)
	return nil
}

func (m *mockPrescriptionRepo) GetByID(_ context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	return nil, fmt.Errorf("not found")
}

func (m *mockPrescriptionRepo) Update(_ context.Context, p *prescription.Prescription) error {
	return nil
}

func (m *mockPrescriptionRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*prescription.Prescription, int, error) {
	var out []*prescription.Prescription
	for _, p := range m.items {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *mockPrescriptionRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, limit, offset int) ([]*prescription.Prescription, int, error) {
	var out []*prescription.Prescription
	for _, p := range m.items {
		if p.DoctorID == doctorID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

type mockReportRepo struct {
	items []*diagnostic.Report
}

func (m *mockReportRepo) Create(_ context.Context, r *diagnostic.Report) error {
	m.items = append(m.items, r)
	return nil
}

func (m *mockReportRepo) GetByID(_ context.Context, id uuid.UUID) (*diagnostic.Report, error) {
	return nil, fmt.Errorf("not found")
}

func (m *mockReportRepo) Update(_ context.Context, r *diagnostic.Report) error {
	return nil
}

func (m *mockReportRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*diagnostic.Report, int, error) {
	var out []*diagnostic.Report
	for _, r := range m.items {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (m *mockReportRepo) ListByDiagnostic(_ context.Context, diagnosticID uuid.UUID, limit, offset int) ([]*diagnostic.Report, int, error) {
	var out []*diagnostic.Report
	for _, r := range m.items {
		if r.DiagnosticID == diagnosticID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

type testEnv struct {
	svc           *Service
	users         *mockUserRepo
	patients      *mockPatientRepo
	doctors       *mockDoctorRepo
	diagnostics   *mockDiagnosticRepo
	appointments  *mockAppointmentRepo
	prescriptions *mockPrescriptionRepo
	reports       *mockReportRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:         newMockUserRepo(),
		patients:      newMockPatientRepo(),
		doctors:       newMockDoctorRepo(),
		diagnostics:   newMockDiagnosticRepo(),
		appointments:  &mockAppointmentRepo{},
		prescriptions: &mockPrescriptionRepo{},
		reports:       &mockReportRepo{},
	}
	env.svc = NewService(env.users, env.patients, env.doctors, env.diagnostics,
		env.appointments, env.prescriptions, env.reports)
	return env
}

// -- Tests --

func TestEnsureProfileCreatesPatient(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RolePatient)

	p, created, err := env.svc.EnsureProfile(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if !created {
		t.Error("expected created=true on first call")
	}
	patient, ok := p.(*PatientProfile)
	if !ok {
		t.Fatalf("expected *PatientProfile, got %T", p)
	}
	if patient.UserID != u.ID {
		t.Errorf("profile user id = %s, want %s", patient.UserID, u.ID)
	}
}

func TestEnsureProfileCreatesDoctorWithDefaultCategory(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RoleDoctor)

	p, created, err := env.svc.EnsureProfile(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
	doctor, ok := p.(*DoctorProfile)
	if !ok {
		t.Fatalf("expected *DoctorProfile, got %T", p)
	}
	if doctor.Category != "general" {
		t.Errorf("category = %q, want general", doctor.Category)
	}
}

func TestEnsureProfileIdempotent(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RoleDiagnostic)
	ctx := context.Background()

	first, created, err := env.svc.EnsureProfile(ctx, u.ID)
	if err != nil || !created {
		t.Fatalf("first call: created=%v err=%v", created, err)
	}
	second, created, err := env.svc.EnsureProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if created {
		t.Error("expected created=false on second call")
	}
	if first.(*DiagnosticProfile).ID != second.(*DiagnosticProfile).ID {
		t.Error("second call returned a different profile")
	}
}

func TestEnsureProfileAdminHasNoProfile(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RoleAdmin)

	p, created, err := env.svc.EnsureProfile(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	if created || p != nil {
		t.Errorf("admin: got profile=%v created=%v, want nil/false", p, created)
	}
}

func TestEnsureProfileUnknownUser(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.svc.EnsureProfile(context.Background(), uuid.New())
	if !errors.Is(err, account.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestGetProfileExpandsPatientRecords(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RolePatient)
	ctx := context.Background()

	if _, _, err := env.svc.EnsureProfile(ctx, u.ID); err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	env.appointments.items = append(env.appointments.items,
		&appointment.Appointment{ID: uuid.New(), PatientID: u.ID, DoctorID: uuid.New()},
		&appointment.Appointment{ID: uuid.New(), PatientID: uuid.New(), DoctorID: uuid.New()})
	env.reports.items = append(env.reports.items,
		&diagnostic.Report{ID: uuid.New(), PatientID: u.ID, DiagnosticID: uuid.New()})

	v, err := env.svc.GetProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	view, ok := v.Profile.(*PatientView)
	if !ok {
		t.Fatalf("expected *PatientView, got %T", v.Profile)
	}
	if len(view.Appointments) != 1 {
		t.Errorf("appointments = %d, want 1", len(view.Appointments))
	}
	if len(view.DiagnosticReports) != 1 {
		t.Errorf("reports = %d, want 1", len(view.DiagnosticReports))
	}
}

func TestGetProfileSurfacesRecordLoadFailure(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RolePatient)
	ctx := context.Background()

	if _, _, err := env.svc.EnsureProfile(ctx, u.ID); err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	env.appointments.listErr = fmt.Errorf("connection refused")

	_, err := env.svc.GetProfile(ctx, u.ID)
	if err == nil {
		t.Fatal("expected error when record lookup fails")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("err = %v, want wrapped repository failure", err)
	}
}

func TestGetProfileExpandsDoctorRecords(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RoleDoctor)
	ctx := context.Background()

	if _, _, err := env.svc.EnsureProfile(ctx, u.ID); err != nil {
		t.Fatalf("EnsureProfile: %v", err)
	}
	env.appointments.items = append(env.appointments.items,
		&appointment.Appointment{ID: uuid.New(), PatientID: uuid.New(), DoctorID: u.ID})
	env.prescriptions.items = append(env.prescriptions.items,
		&prescription.Prescription{ID: uuid.New(), DoctorID: u.ID, PatientID: uuid.New()},
		&prescription.Prescription{ID: uuid.New(), DoctorID: u.ID, PatientID: uuid.New()})

	v, err := env.svc.GetProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	view, ok := v.Profile.(*DoctorView)
	if !ok {
		t.Fatalf("expected *DoctorView, got %T", v.Profile)
	}
	if len(view.Appointments) != 1 {
		t.Errorf("appointments = %d, want 1", len(view.Appointments))
	}
	if len(view.Prescriptions) != 2 {
		t.Errorf("prescriptions = %d, want 2", len(view.Prescriptions))
	}
}

func TestGetProfileMissingProfileIsNil(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RolePatient)

	v, err := env.svc.GetProfile(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if v.Profile != nil {
		t.Errorf("profile = %v, want nil", v.Profile)
	}
	if v.User.ID != u.ID {
		t.Errorf("user id = %s, want %s", v.User.ID, u.ID)
	}
}

func TestUpdateUsername(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RolePatient)

	got, err := env.svc.UpdateUsername(context.Background(), u.ID, "new-name")
	if err != nil {
		t.Fatalf("UpdateUsername: %v", err)
	}
	if got.Username != "new-name" {
		t.Errorf("username = %q, want new-name", got.Username)
	}
}

func TestUpdateUsernameEmptyIsNoOp(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RolePatient)
	before := u.Username

	got, err := env.svc.UpdateUsername(context.Background(), u.ID, "")
	if err != nil {
		t.Fatalf("UpdateUsername: %v", err)
	}
	if got.Username != before {
		t.Errorf("username = %q, want unchanged %q", got.Username, before)
	}
}

func TestUpdatePatientDetailsLazyCreate(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RolePatient)

	phone := "555-0101"
	age := 34
	p, err := env.svc.UpdatePatientDetails(context.Background(), u.ID, PatientUpdate{
		Phone: &phone,
		Age:   &age,
	})
	if err != nil {
		t.Fatalf("UpdatePatientDetails: %v", err)
	}
	if p.Phone != "555-0101" {
		t.Errorf("phone = %q", p.Phone)
	}
	if p.Age == nil || *p.Age != 34 {
		t.Errorf("age = %v, want 34", p.Age)
	}
	if ok, _ := env.patients.Exists(context.Background(), u.ID); !ok {
		t.Error("profile was not created")
	}
}

func TestUpdatePatientDetailsLeavesUnsetFields(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RolePatient)
	ctx := context.Background()

	addr := "12 Main St"
	if _, err := env.svc.UpdatePatientDetails(ctx, u.ID, PatientUpdate{Address: &addr}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	blood := "O+"
	p, err := env.svc.UpdatePatientDetails(ctx, u.ID, PatientUpdate{BloodGroup: &blood})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if p.Address != "12 Main St" {
		t.Errorf("address = %q, want preserved", p.Address)
	}
	if p.BloodGroup != "O+" {
		t.Errorf("blood group = %q", p.BloodGroup)
	}
}

func TestUpdateDoctorDetailsLowercasesCategory(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RoleDoctor)

	category := "Cardiology"
	fee := 150.0
	d, err := env.svc.UpdateDoctorDetails(context.Background(), u.ID, DoctorUpdate{
		Category:       &category,
		AppointmentFee: &fee,
	})
	if err != nil {
		t.Fatalf("UpdateDoctorDetails: %v", err)
	}
	if d.Category != "cardiology" {
		t.Errorf("category = %q, want cardiology", d.Category)
	}
	if d.AppointmentFee != 150.0 {
		t.Errorf("fee = %v", d.AppointmentFee)
	}
}

func TestUpdateDoctorDetailsAvailability(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RoleDoctor)

	var upd DoctorUpdate
	payload := `{"availability": "Mon 9-12, Wed 14-17, , Fri 9-12 "}`
	if err := json.Unmarshal([]byte(payload), &upd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	d, err := env.svc.UpdateDoctorDetails(context.Background(), u.ID, upd)
	if err != nil {
		t.Fatalf("UpdateDoctorDetails: %v", err)
	}
	want := []string{"Mon 9-12", "Wed 14-17", "Fri 9-12"}
	if len(d.Availability) != len(want) {
		t.Fatalf("availability = %v, want %v", d.Availability, want)
	}
	for i, slot := range want {
		if d.Availability[i] != slot {
			t.Errorf("slot[%d] = %q, want %q", i, d.Availability[i], slot)
		}
	}
}

func TestAvailabilityAcceptsArray(t *testing.T) {
	var a Availability
	if err := json.Unmarshal([]byte(`[" Mon 9-12 ", "", "Tue 10-13"]`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(a) != 2 || a[0] != "Mon 9-12" || a[1] != "Tue 10-13" {
		t.Errorf("availability = %v", a)
	}
}

func TestAvailabilityRejectsNonString(t *testing.T) {
	var a Availability
	if err := json.Unmarshal([]byte(`42`), &a); err == nil {
		t.Error("expected error for numeric availability")
	}
}

func TestHasProfileChecks(t *testing.T) {
	env := newTestEnv()
	patient := env.users.seed(account.RolePatient)
	doctor := env.users.seed(account.RoleDoctor)
	ctx := context.Background()

	if _, _, err := env.svc.EnsureProfile(ctx, patient.ID); err != nil {
		t.Fatalf("ensure patient: %v", err)
	}
	if _, _, err := env.svc.EnsureProfile(ctx, doctor.ID); err != nil {
		t.Fatalf("ensure doctor: %v", err)
	}

	if ok, _ := env.svc.HasPatientProfile(ctx, patient.ID); !ok {
		t.Error("patient profile should exist")
	}
	if ok, _ := env.svc.HasDoctorProfile(ctx, patient.ID); ok {
		t.Error("patient should not have a doctor profile")
	}
	if ok, _ := env.svc.HasDoctorProfile(ctx, doctor.ID); !ok {
		t.Error("doctor profile should exist")
	}
	if ok, _ := env.svc.HasDiagnosticProfile(ctx, doctor.ID); ok {
		t.Error("doctor should not have a diagnostic profile")
	}
}

func TestListDoctors(t *testing.T) {
	env := newTestEnv()
	u := env.users.seed(account.RoleDoctor)
	ctx := context.Background()

	if _, _, err := env.svc.EnsureProfile(ctx, u.ID); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	items, total, err := env.svc.ListDoctors(ctx, 20, 0)
	if err != nil {
		t.Fatalf("ListDoctors: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("got %d items total=%d, want 1", len(items), total)
	}
	if items[0].Username == "" || items[0].Email == "" {
		t.Error("public listing should include the owning user's identity")
	}
}
