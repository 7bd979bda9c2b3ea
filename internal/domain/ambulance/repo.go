package ambulance

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists ambulance requests.
type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	Update(ctx context.Context, r *Request) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Request, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Request, int, error)
}
