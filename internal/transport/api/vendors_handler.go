package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type VendorsHandler struct {
	vendorSvs VendorServicer
}

func NewVendorsHandler(vendorSvs VendorServicer) *VendorsHandler {
	return &VendorsHandler{
		vendorSvs: vendorSvs,
	}
}

// VendorParams координаты принимаются как произвольные десятичные значения,
// без потери точности на float.
type VendorParams struct {
	SeamlessID *int64           `json:"seamless_id"`
	Name       string           `json:"name" binding:"required"`
	Latitude   *decimal.Decimal `json:"latitude"`
	Longitude  *decimal.Decimal `json:"longitude"`
}

type VendorUpdateParams struct {
	SeamlessID *int64           `json:"seamless_id"`
	Name       *string          `json:"name" binding:"omitempty,min=1"`
	Latitude   *decimal.Decimal `json:"latitude"`
	Longitude  *decimal.Decimal `json:"longitude"`
}

type VendorResponse struct {
	ID         int64            `json:"id"`
	SeamlessID *int64           `json:"seamless_id"`
	Name       string           `json:"name"`
	Latitude   *decimal.Decimal `json:"latitude"`
	Longitude  *decimal.Decimal `json:"longitude"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func newVendorResponse(vendor *domain.Vendor) VendorResponse {
	return VendorResponse{
		ID:         vendor.ID,
		SeamlessID: vendor.SeamlessID,
		Name:       vendor.Name,
		Latitude:   vendor.Latitude,
		Longitude:  vendor.Longitude,
		CreatedAt:  vendor.CreatedAt,
		UpdatedAt:  vendor.UpdatedAt,
	}
}

// Create POST RouteGroup + VendorsRoute.
func (h *VendorsHandler) Create(c *gin.Context) {
	var params VendorParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	vendor, err := h.vendorSvs.Create(reqCtx, repoargs.CreateVendor{
		SeamlessID: params.SeamlessID,
		Name:       params.Name,
		Latitude:   params.Latitude,
		Longitude:  params.Longitude,
	})
	if err != nil {
		abortWithServiceError(c, "vendor", err)
		return
	}
	c.JSON(http.StatusCreated, newVendorResponse(vendor))
}

// Index GET RouteGroup + VendorsRoute.
func (h *VendorsHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	vendors, err := h.vendorSvs.List(reqCtx)
	if err != nil {
		abortWithServiceError(c, "vendor", err)
		return
	}

	response := make([]VendorResponse, len(vendors))
	for i := range vendors {
		response[i] = newVendorResponse(&vendors[i])
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + VendorRoute.
func (h *VendorsHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	vendor, err := h.vendorSvs.GetByID(reqCtx, id)
	if err != nil {
		abortWithServiceError(c, "vendor", err)
		return
	}
	c.JSON(http.StatusOK, newVendorResponse(vendor))
}

// Update PUT RouteGroup + VendorRoute.
func (h *VendorsHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var params VendorUpdateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	vendor, err := h.vendorSvs.Update(reqCtx, id, repoargs.UpdateVendor{
		SeamlessID: params.SeamlessID,
		Name:       params.Name,
		Latitude:   params.Latitude,
		Longitude:  params.Longitude,
	})
	if err != nil {
		abortWithServiceError(c, "vendor", err)
		return
	}
	c.JSON(http.StatusOK, newVendorResponse(vendor))
}

// Destroy DELETE RouteGroup + VendorRoute.
func (h *VendorsHandler) Destroy(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.vendorSvs.Delete(reqCtx, id); err != nil {
		abortWithServiceError(c, "vendor", err)
		return
	}
	c.Status(http.StatusNoContent)
}
