package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hospitex/hospitex/internal/domain/account"
	"github.com/hospitex/hospitex/internal/domain/appointment"
	"github.com/hospitex/hospitex/internal/domain/diagnostic"
	"github.com/hospitex/hospitex/internal/domain/prescription"
)

// expandLimit caps how many owned records a profile view embeds. Clients
// needing more page through the dedicated list endpoints.
const expandLimit = 100

// View is the authenticated profile response: the account joined with the
// role-specific profile, or a nil profile when the role carries none.
type View struct {
	User    *account.User `json:"user"`
	Profile interface{}   `json:"profile"`
}

// PatientView embeds the patient's owned records.
type PatientView struct {
	*PatientProfile
	Appointments      []*appointment.Appointment `json:"appointments"`
	DiagnosticReports []*diagnostic.Report       `json:"diagnosticReports"`
}

// DoctorView embeds the doctor's owned records.
type DoctorView struct {
	*DoctorProfile
	Appointments  []*appointment.Appointment   `json:"appointments"`
	Prescriptions []*prescription.Prescription `json:"prescriptions"`
}

// DiagnosticView embeds the center's reports.
type DiagnosticView struct {
	*DiagnosticProfile
	DiagnosticReports []*diagnostic.Report `json:"diagnosticReports"`
}

// roleOps is the per-role behavior table. Dispatch happens by looking up the
// account role once instead of branching on the role string at every call
// site.
type roleOps struct {
	ensure func(ctx context.Context, userID uuid.UUID) (interface{}, bool, error)
	load   func(ctx context.Context, userID uuid.UUID) (interface{}, error)
}

type Service struct {
	users         account.UserRepository
	patients      PatientRepository
	doctors       DoctorRepository
	diagnostics   DiagnosticRepository
	appointments  appointment.Repository
	prescriptions prescription.Repository
	reports       diagnostic.Repository

	roles map[string]roleOps
}

func NewService(
	users account.UserRepository,
	patients PatientRepository,
	doctors DoctorRepository,
	diagnostics DiagnosticRepository,
	appointments appointment.Repository,
	prescriptions prescription.Repository,
	reports diagnostic.Repository,
) *Service {
	s := &Service{
		users:         users,
		patients:      patients,
		doctors:       doctors,
		diagnostics:   diagnostics,
		appointments:  appointments,
		prescriptions: prescriptions,
		reports:       reports,
	}
	s.roles = map[string]roleOps{
		account.RolePatient:    {ensure: s.ensurePatient, load: s.loadPatientView},
		account.RoleDoctor:     {ensure: s.ensureDoctor, load: s.loadDoctorView},
		account.RoleDiagnostic: {ensure: s.ensureDiagnostic, load: s.loadDiagnosticView},
	}
	return s
}

// EnsureProfile creates the caller's role profile if it does not exist yet.
// The second return reports whether a profile was created by this call.
// Roles without a profile table (Admin) return a nil profile.
func (s *Service) EnsureProfile(ctx context.Context, userID uuid.UUID) (interface{}, bool, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, false, account.ErrUserNotFound
	}
	ops, ok := s.roles[u.Role]
	if !ok {
		return nil, false, nil
	}
	return ops.ensure(ctx, userID)
}

func (s *Service) ensurePatient(ctx context.Context, userID uuid.UUID) (interface{}, bool, error) {
	if existing, err := s.patients.GetByUserID(ctx, userID); err == nil {
		return existing, false, nil
	}
	p := &PatientProfile{UserID: userID}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *Service) ensureDoctor(ctx context.Context, userID uuid.UUID) (interface{}, bool, error) {
	if existing, err := s.doctors.GetByUserID(ctx, userID); err == nil {
		return existing, false, nil
	}
	d := &DoctorProfile{UserID: userID, Category: "general"}
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, false, err
	}
	return d, true, nil
}

func (s *Service) ensureDiagnostic(ctx context.Context, userID uuid.UUID) (interface{}, bool, error) {
	if existing, err := s.diagnostics.GetByUserID(ctx, userID); err == nil {
		return existing, false, nil
	}
	d := &DiagnosticProfile{UserID: userID}
	if err := s.diagnostics.Create(ctx, d); err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// GetProfile returns the account joined with its role profile, the profile's
// owned records embedded. A missing profile yields a nil Profile, not an
// error.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*View, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, account.ErrUserNotFound
	}
	v := &View{User: u}
	if ops, ok := s.roles[u.Role]; ok {
		p, err := ops.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		v.Profile = p
	}
	return v, nil
}

func (s *Service) loadPatientView(ctx context.Context, userID uuid.UUID) (interface{}, error) {
	p, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil
	}
	appts, _, err := s.appointments.ListByPatient(ctx, userID, expandLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	reports, _, err := s.reports.ListByPatient(ctx, userID, expandLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("list patient reports: %w", err)
	}
	return &PatientView{PatientProfile: p, Appointments: appts, DiagnosticReports: reports}, nil
}

func (s *Service) loadDoctorView(ctx context.Context, userID uuid.UUID) (interface{}, error) {
	d, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil
	}
	appts, _, err := s.appointments.ListByDoctor(ctx, userID, expandLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("list doctor appointments: %w", err)
	}
	scripts, _, err := s.prescriptions.ListByDoctor(ctx, userID, expandLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("list doctor prescriptions: %w", err)
	}
	return &DoctorView{DoctorProfile: d, Appointments: appts, Prescriptions: scripts}, nil
}

func (s *Service) loadDiagnosticView(ctx context.Context, userID uuid.UUID) (interface{}, error) {
	d, err := s.diagnostics.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil
	}
	reports, _, err := s.reports.ListByDiagnostic(ctx, userID, expandLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("list diagnostic reports: %w", err)
	}
	return &DiagnosticView{DiagnosticProfile: d, DiagnosticReports: reports}, nil
}

// UpdateUsername changes the account display name. An empty username is a
// no-op, preserved from the original contract.
func (s *Service) UpdateUsername(ctx context.Context, userID uuid.UUID, username string) (*account.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, account.ErrUserNotFound
	}
	if username != "" {
		u.Username = username
		if err := s.users.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// PatientUpdate carries the patient detail allow-list. Nil fields are left
// untouched.
type PatientUpdate struct {
	Phone            *string `json:"phone"`
	Age              *int    `json:"age"`
	Gender           *string `json:"gender"`
	Address          *string `json:"address"`
	BloodGroup       *string `json:"bloodGroup"`
	EmergencyContact *string `json:"emergencyContact"`
	MedicalHistory   *string `json:"medicalHistory"`
}

// UpdatePatientDetails applies the allow-listed fields, creating the profile
// if the user has none yet.
func (s *Service) UpdatePatientDetails(ctx context.Context, userID uuid.UUID, upd PatientUpdate) (*PatientProfile, error) {
	p, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		p = &PatientProfile{UserID: userID}
		if err := s.patients.Create(ctx, p); err != nil {
			return nil, err
		}
	}
	if upd.Phone != nil {
		p.Phone = *upd.Phone
	}
	if upd.Age != nil {
		p.Age = upd.Age
	}
	if upd.Gender != nil {
		p.Gender = *upd.Gender
	}
	if upd.Address != nil {
		p.Address = *upd.Address
	}
	if upd.BloodGroup != nil {
		p.BloodGroup = *upd.BloodGroup
	}
	if upd.EmergencyContact != nil {
		p.EmergencyContact = *upd.EmergencyContact
	}
	if upd.MedicalHistory != nil {
		p.MedicalHistory = *upd.MedicalHistory
	}
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DoctorUpdate carries the doctor detail allow-list.
type DoctorUpdate struct {
	Specialty       *string       `json:"specialty"`
	Category        *string       `json:"category"`
	ExperienceYears *int          `json:"experienceYears"`
	AppointmentFee  *float64      `json:"appointmentFee"`
	Location        *string       `json:"location"`
	About           *string       `json:"about"`
	ImageURL        *string       `json:"imageUrl"`
	ContactNumber   *string       `json:"contactNumber"`
	Availability    *Availability `json:"availability"`
}

// UpdateDoctorDetails applies the allow-listed fields, lower-casing the
// category and creating the profile if the user has none yet.
func (s *Service) UpdateDoctorDetails(ctx context.Context, userID uuid.UUID, upd DoctorUpdate) (*DoctorProfile, error) {
	d, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		d = &DoctorProfile{UserID: userID, Category: "general"}
		if err := s.doctors.Create(ctx, d); err != nil {
			return nil, err
		}
	}
	if upd.Specialty != nil {
		d.Specialty = *upd.Specialty
	}
	if upd.Category != nil && *upd.Category != "" {
		d.Category = strings.ToLower(*upd.Category)
	}
	if upd.ExperienceYears != nil {
		d.ExperienceYears = *upd.ExperienceYears
	}
	if upd.AppointmentFee != nil {
		d.AppointmentFee = *upd.AppointmentFee
	}
	if upd.Location != nil {
		d.Location = *upd.Location
	}
	if upd.About != nil {
		d.About = *upd.About
	}
	if upd.ImageURL != nil {
		d.ImageURL = *upd.ImageURL
	}
	if upd.ContactNumber != nil {
		d.ContactNumber = *upd.ContactNumber
	}
	if upd.Availability != nil {
		d.Availability = *upd.Availability
	}
	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListDoctors is the unauthenticated doctor directory.
func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*PublicDoctor, int, error) {
	return s.doctors.ListPublic(ctx, limit, offset)
}

// ListDiagnostics is the unauthenticated diagnostic-center directory.
func (s *Service) ListDiagnostics(ctx context.Context, limit, offset int) ([]*PublicDiagnostic, int, error) {
	return s.diagnostics.ListPublic(ctx, limit, offset)
}

// HasPatientProfile reports whether the user owns a patient profile.
func (s *Service) HasPatientProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.patients.Exists(ctx, userID)
}

// HasDoctorProfile reports whether the user owns a doctor profile.
func (s *Service) HasDoctorProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.doctors.Exists(ctx, userID)
}

// HasDiagnosticProfile reports whether the user owns a diagnostic-center
// profile.
func (s *Service) HasDiagnosticProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.diagnostics.Exists(ctx, userID)
}
