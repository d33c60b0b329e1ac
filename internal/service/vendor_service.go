package service

import (
	"context"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/uow"
)

type VendorService struct {
	uow        uow.UOW
	vendorRepo VendorRepository
}

func NewVendorService(u uow.UOW) (*VendorService, error) {
	vendorRepo, err := uow.GetRepositoryAs[VendorRepository](u, uow.RepositoryName(repoargs.VendorRepoName))
	if err != nil {
		return nil, err
	}
	return &VendorService{
		uow:        u,
		vendorRepo: vendorRepo,
	}, nil
}

func (s *VendorService) Create(ctx context.Context, args repoargs.CreateVendor) (*domain.Vendor, error) {
	vendor, err := s.vendorRepo.Create(ctx, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return vendor, nil
}

func (s *VendorService) GetByID(ctx context.Context, id int64) (*domain.Vendor, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return vendor, nil
}

func (s *VendorService) List(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := s.vendorRepo.All(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return vendors, nil
}

func (s *VendorService) Update(ctx context.Context, id int64, args repoargs.UpdateVendor) (*domain.Vendor, error) {
	vendor, err := s.vendorRepo.Update(ctx, id, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return vendor, nil
}

func (s *VendorService) Delete(ctx context.Context, id int64) error {
	return s.vendorRepo.Delete(ctx, id) //nolint:wrapcheck
}
