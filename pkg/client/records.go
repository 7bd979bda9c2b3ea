package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Page selects a window of a list endpoint. The zero value uses the server's
// defaults.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) query() string {
	if p.Limit == 0 && p.Offset == 0 {
		return ""
	}
	return fmt.Sprintf("?limit=%d&offset=%d", p.Limit, p.Offset)
}

// -- Profile --

// PublicDoctor is a doctor directory entry.
type PublicDoctor struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	Specialty       string   `json:"specialty"`
	Category        string   `json:"category"`
	ExperienceYears int      `json:"experienceYears"`
	AppointmentFee  float64  `json:"appointmentFee"`
	Location        string   `json:"location"`
	About           string   `json:"about"`
	ImageURL        string   `json:"imageUrl"`
	ContactNumber   string   `json:"contactNumber"`
	Availability    []string `json:"availability"`
}

// PublicDiagnostic is a diagnostic-center directory entry.
type PublicDiagnostic struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CreateProfile idempotently creates the caller's role profile.
func (c *Client) CreateProfile(ctx context.Context) (json.RawMessage, error) {
	var resp struct {
		Profile json.RawMessage `json:"profile"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/profile/create", nil, &resp); err != nil {
		return nil, err
	}
	c.invalidate()
	return resp.Profile, nil
}

// UpdateUsername renames the account.
func (c *Client) UpdateUsername(ctx context.Context, username string) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	body := map[string]string{"username": username}
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", body, &resp); err != nil {
		return nil, err
	}
	c.invalidate()
	return resp.User, nil
}

// UpdatePatientDetails applies the given patient profile fields. Only keys
// present in details are changed.
func (c *Client) UpdatePatientDetails(ctx context.Context, details map[string]interface{}) (json.RawMessage, error) {
	var resp struct {
		Patient json.RawMessage `json:"patient"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/users/profile/patient", details, &resp); err != nil {
		return nil, err
	}
	c.invalidate()
	return resp.Patient, nil
}

// UpdateDoctorDetails applies the given doctor profile fields.
func (c *Client) UpdateDoctorDetails(ctx context.Context, details map[string]interface{}) (json.RawMessage, error) {
	var resp struct {
		Doctor json.RawMessage `json:"doctor"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/users/profile/doctor", details, &resp); err != nil {
		return nil, err
	}
	c.invalidate()
	return resp.Doctor, nil
}

// ListDoctors returns the public doctor directory.
func (c *Client) ListDoctors(ctx context.Context, page Page) ([]PublicDoctor, int, error) {
	var resp struct {
		Doctors []PublicDoctor `json:"doctors"`
		Total   int            `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/doctors"+page.query(), nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Doctors, resp.Total, nil
}

// ListDiagnostics returns the public diagnostic-center directory.
func (c *Client) ListDiagnostics(ctx context.Context, page Page) ([]PublicDiagnostic, int, error) {
	var resp struct {
		Diagnostics []PublicDiagnostic `json:"diagnostics"`
		Total       int                `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/diagnostics"+page.query(), nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Diagnostics, resp.Total, nil
}

// -- Appointments --

type Appointment struct {
	ID              string    `json:"id"`
	PatientID       string    `json:"patient_id"`
	DoctorID        string    `json:"doctor_id"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	Service         string    `json:"service"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
	AppointmentFee  float64   `json:"appointment_fee"`
	DoctorName      string    `json:"doctor_name"`
	DoctorSpecialty string    `json:"doctor_specialty"`
	DoctorLocation  string    `json:"doctor_location"`
	DoctorImage     string    `json:"doctor_image"`
}

type BookAppointmentRequest struct {
	DoctorID        string    `json:"doctorId"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	Service         string    `json:"service"`
	Notes           string    `json:"notes,omitempty"`
	AppointmentFee  float64   `json:"appointmentFee,omitempty"`
	DoctorName      string    `json:"doctorName,omitempty"`
	DoctorSpecialty string    `json:"doctorSpecialty,omitempty"`
	DoctorLocation  string    `json:"doctorLocation,omitempty"`
	DoctorImage     string    `json:"doctorImage,omitempty"`
}

func (c *Client) BookAppointment(ctx context.Context, req BookAppointmentRequest) (*Appointment, error) {
	var resp struct {
		Appointment *Appointment `json:"appointment"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/appointments/book", req, &resp); err != nil {
		return nil, err
	}
	return resp.Appointment, nil
}

func (c *Client) PatientAppointments(ctx context.Context, page Page) ([]Appointment, int, error) {
	return c.listAppointments(ctx, "/api/appointments/patient"+page.query())
}

func (c *Client) DoctorAppointments(ctx context.Context, page Page) ([]Appointment, int, error) {
	return c.listAppointments(ctx, "/api/appointments/doctor/all"+page.query())
}

func (c *Client) listAppointments(ctx context.Context, path string) ([]Appointment, int, error) {
	var resp struct {
		Appointments []Appointment `json:"appointments"`
		Total        int           `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Appointments, resp.Total, nil
}

func (c *Client) Appointment(ctx context.Context, id string) (*Appointment, error) {
	var resp struct {
		Appointment *Appointment `json:"appointment"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/appointments/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Appointment, nil
}

func (c *Client) UpdateAppointmentStatus(ctx context.Context, id, status, notes string) (*Appointment, error) {
	var resp struct {
		Appointment *Appointment `json:"appointment"`
	}
	body := map[string]string{"status": status}
	if notes != "" {
		body["notes"] = notes
	}
	if err := c.do(ctx, http.MethodPut, "/api/appointments/"+id+"/status", body, &resp); err != nil {
		return nil, err
	}
	return resp.Appointment, nil
}

func (c *Client) CancelAppointment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/appointments/"+id+"/cancel", nil, nil)
}

// -- Prescriptions --

type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

type Prescription struct {
	ID            string       `json:"id"`
	PatientID     string       `json:"patient_id"`
	DoctorID      string       `json:"doctor_id"`
	AppointmentID *string      `json:"appointment_id,omitempty"`
	Medications   []Medication `json:"medications"`
	Diagnosis     string       `json:"diagnosis"`
	Notes         string       `json:"notes"`
	FollowUpDate  *time.Time   `json:"follow_up_date,omitempty"`
}

type CreatePrescriptionRequest struct {
	PatientID     string       `json:"patientId"`
	AppointmentID string       `json:"appointmentId,omitempty"`
	Medications   []Medication `json:"medications"`
	Diagnosis     string       `json:"diagnosis,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	FollowUpDate  *time.Time   `json:"followUpDate,omitempty"`
}

func (c *Client) CreatePrescription(ctx context.Context, req CreatePrescriptionRequest) (*Prescription, error) {
	var resp struct {
		Prescription *Prescription `json:"prescription"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/prescriptions/create", req, &resp); err != nil {
		return nil, err
	}
	return resp.Prescription, nil
}

func (c *Client) PatientPrescriptions(ctx context.Context, page Page) ([]Prescription, int, error) {
	return c.listPrescriptions(ctx, "/api/prescriptions/patient/all"+page.query())
}

func (c *Client) DoctorPrescriptions(ctx context.Context, page Page) ([]Prescription, int, error) {
	return c.listPrescriptions(ctx, "/api/prescriptions/doctor/all"+page.query())
}

func (c *Client) listPrescriptions(ctx context.Context, path string) ([]Prescription, int, error) {
	var resp struct {
		Prescriptions []Prescription `json:"prescriptions"`
		Total         int           `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Prescriptions, resp.Total, nil
}

func (c *Client) Prescription(ctx context.Context, id string) (*Prescription, error) {
	var resp struct {
		Prescription *Prescription `json:"prescription"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/prescriptions/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Prescription, nil
}

func (c *Client) UpdatePrescription(ctx context.Context, id string, fields map[string]interface{}) (*Prescription, error) {
	var resp struct {
		Prescription *Prescription `json:"prescription"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/prescriptions/"+id, fields, &resp); err != nil {
		return nil, err
	}
	return resp.Prescription, nil
}

// -- Diagnostic reports --

type DiagnosticReport struct {
	ID           string                 `json:"id"`
	PatientID    string                 `json:"patient_id"`
	DiagnosticID string                 `json:"diagnostic_id"`
	DoctorID     *string                `json:"doctor_id,omitempty"`
	TestName     string                 `json:"test_name"`
	TestType     string                 `json:"test_type"`
	TestDate     time.Time              `json:"test_date"`
	Results      map[string]interface{} `json:"results"`
	ReportFile   string                 `json:"report_file"`
	Status       string                 `json:"status"`
	Notes        string                 `json:"notes"`
}

type BookDiagnosticRequest struct {
	DiagnosticID string    `json:"diagnosticId"`
	DoctorID     string    `json:"doctorId,omitempty"`
	TestName     string    `json:"testName"`
	TestType     string    `json:"testType"`
	TestDate     time.Time `json:"testDate"`
	Notes        string    `json:"notes,omitempty"`
}

func (c *Client) BookDiagnosticTest(ctx context.Context, req BookDiagnosticRequest) (*DiagnosticReport, error) {
	var resp struct {
		Report *DiagnosticReport `json:"report"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/diagnostics/book", req, &resp); err != nil {
		return nil, err
	}
	return resp.Report, nil
}

func (c *Client) PatientDiagnosticReports(ctx context.Context, page Page) ([]DiagnosticReport, int, error) {
	return c.listReports(ctx, "/api/diagnostics/patient/reports"+page.query())
}

func (c *Client) CenterDiagnosticReports(ctx context.Context, page Page) ([]DiagnosticReport, int, error) {
	return c.listReports(ctx, "/api/diagnostics/diagnostic/reports"+page.query())
}

func (c *Client) listReports(ctx context.Context, path string) ([]DiagnosticReport, int, error) {
	var resp struct {
		Reports []DiagnosticReport `json:"reports"`
		Total   int                `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Reports, resp.Total, nil
}

func (c *Client) DiagnosticReport(ctx context.Context, id string) (*DiagnosticReport, error) {
	var resp struct {
		Report *DiagnosticReport `json:"report"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/diagnostics/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Report, nil
}

func (c *Client) UpdateDiagnosticReport(ctx context.Context, id string, fields map[string]interface{}) (*DiagnosticReport, error) {
	var resp struct {
		Report *DiagnosticReport `json:"report"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/diagnostics/"+id, fields, &resp); err != nil {
		return nil, err
	}
	return resp.Report, nil
}

// -- Ambulance --

type AmbulanceRequest struct {
	ID             string `json:"id"`
	PatientID      string `json:"patient_id"`
	PickupLocation string `json:"pickup_location"`
	Destination    string `json:"destination"`
	EmergencyType  string `json:"emergency_type"`
	PatientName    string `json:"patient_name"`
	ContactNumber  string `json:"contact_number"`
	Status         string `json:"status"`
	EstimatedTime  string `json:"estimated_time"`
	Notes          string `json:"notes"`
}

type RequestAmbulanceRequest struct {
	PickupLocation string `json:"pickupLocation"`
	Destination    string `json:"destination"`
	EmergencyType  string `json:"emergencyType"`
	PatientName    string `json:"patientName"`
	ContactNumber  string `json:"contactNumber"`
	Notes          string `json:"notes,omitempty"`
}

func (c *Client) RequestAmbulance(ctx context.Context, req RequestAmbulanceRequest) (*AmbulanceRequest, error) {
	var resp struct {
		Request *AmbulanceRequest `json:"request"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ambulance/request", req, &resp); err != nil {
		return nil, err
	}
	return resp.Request, nil
}

func (c *Client) PatientAmbulanceRequests(ctx context.Context, page Page) ([]AmbulanceRequest, int, error) {
	return c.listAmbulance(ctx, "/api/ambulance/patient/requests"+page.query())
}

// AllAmbulanceRequests is the operator view; the server rejects callers
// without the operator role.
func (c *Client) AllAmbulanceRequests(ctx context.Context, page Page) ([]AmbulanceRequest, int, error) {
	return c.listAmbulance(ctx, "/api/ambulance/all"+page.query())
}

func (c *Client) listAmbulance(ctx context.Context, path string) ([]AmbulanceRequest, int, error) {
	var resp struct {
		Requests []AmbulanceRequest `json:"requests"`
		Total    int                `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Requests, resp.Total, nil
}

func (c *Client) AmbulanceRequest(ctx context.Context, id string) (*AmbulanceRequest, error) {
	var resp struct {
		Request *AmbulanceRequest `json:"request"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/ambulance/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Request, nil
}

func (c *Client) UpdateAmbulanceStatus(ctx context.Context, id, status, estimatedTime, notes string) (*AmbulanceRequest, error) {
	var resp struct {
		Request *AmbulanceRequest `json:"request"`
	}
	body := map[string]string{"status": status}
	if estimatedTime != "" {
		body["estimatedTime"] = estimatedTime
	}
	if notes != "" {
		body["notes"] = notes
	}
	if err := c.do(ctx, http.MethodPut, "/api/ambulance/"+id+"/status", body, &resp); err != nil {
		return nil, err
	}
	return resp.Request, nil
}

func (c *Client) CancelAmbulanceRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/ambulance/"+id+"/cancel", nil, nil)
}
