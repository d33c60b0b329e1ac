package service

import (
	"fmt"

	"github.com/fsdevblog/seamless-karma/pkg/uow"
)

type AppServices struct {
	OrganizationService *OrganizationService
	VendorService       *VendorService
	UserService         *UserService
	OrderService        *OrderService
	AllocationService   *AllocationService
}

func Factory(unitOfWork uow.UOW) (*AppServices, error) {
	orgService, orgServiceErr := NewOrganizationService(unitOfWork)
	if orgServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orgServiceErr.Error())
	}

	vendorService, vendorServiceErr := NewVendorService(unitOfWork)
	if vendorServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", vendorServiceErr.Error())
	}

	userService, userServiceErr := NewUserService(unitOfWork)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	allocationService, allocationServiceErr := NewAllocationService(unitOfWork)
	if allocationServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", allocationServiceErr.Error())
	}

	return &AppServices{
		OrganizationService: orgService,
		VendorService:       vendorService,
		UserService:         userService,
		OrderService:        orderService,
		AllocationService:   allocationService,
	}, nil
}
