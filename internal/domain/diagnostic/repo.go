package diagnostic

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists diagnostic reports.
type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	Update(ctx context.Context, r *Report) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Report, int, error)
	ListByDiagnostic(ctx context.Context, diagnosticID uuid.UUID, limit, offset int) ([]*Report, int, error)
}
