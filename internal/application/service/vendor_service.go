package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/repository"
	"github.com/canteenhq/finance-api/pkg/apperror"
)

// VendorService exposes the read-only canteen registry.
type VendorService struct {
	vendorRepo repository.VendorRepository
}

// NewVendorService creates a new vendor service
func NewVendorService(vendorRepo repository.VendorRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo}
}

// List returns every registered vendor.
func (s *VendorService) List(ctx context.Context) ([]entity.Vendor, error) {
	return s.vendorRepo.List(ctx)
}

// GetByID returns a single vendor.
func (s *VendorService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperror.NewNotFoundError("Vendor")
	}
	return vendor, nil
}
