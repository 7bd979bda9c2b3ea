package profile

import (
	"context"

	"github.com/google/uuid"
)

// PatientRepository persists patient profiles, keyed by owning user.
type PatientRepository interface {
	Create(ctx context.Context, p *PatientProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*PatientProfile, error)
	Update(ctx context.Context, p *PatientProfile) error
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// DoctorRepository persists doctor profiles.
type DoctorRepository interface {
	Create(ctx context.Context, d *DoctorProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error)
	Update(ctx context.Context, d *DoctorProfile) error
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*PublicDoctor, int, error)
}

// DiagnosticRepository persists diagnostic-center profiles.
type DiagnosticRepository interface {
	Create(ctx context.Context, d *DiagnosticProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*DiagnosticProfile, error)
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*PublicDiagnostic, int, error)
}
