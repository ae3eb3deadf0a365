package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/canteenhq/finance-api/internal/domain/entity"
)

// VendorRepository defines the read-only interface over the canteen registry.
type VendorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error)
	List(ctx context.Context) ([]entity.Vendor, error)
}
