package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/gin-gonic/gin"
)

type OrganizationsHandler struct {
	orgSvs   OrganizationServicer
	orderSvs OrderServicer
	allocSvs AllocationServicer
}

func NewOrganizationsHandler(
	orgSvs OrganizationServicer,
	orderSvs OrderServicer,
	allocSvs AllocationServicer,
) *OrganizationsHandler {
	return &OrganizationsHandler{
		orgSvs:   orgSvs,
		orderSvs: orderSvs,
		allocSvs: allocSvs,
	}
}

type OrganizationParams struct {
	SeamlessID        *int64  `json:"seamless_id"`
	Name              string  `json:"name" binding:"required"`
	DefaultAllocation *string `json:"default_allocation" binding:"omitempty,money"`
}

type OrganizationUpdateParams struct {
	SeamlessID        *int64  `json:"seamless_id"`
	Name              *string `json:"name" binding:"omitempty,min=1"`
	DefaultAllocation *string `json:"default_allocation" binding:"omitempty,money"`
}

type OrganizationResponse struct {
	ID                int64            `json:"id"`
	SeamlessID        *int64           `json:"seamless_id"`
	Name              string           `json:"name"`
	DefaultAllocation *currency.Amount `json:"default_allocation"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func newOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:                org.ID,
		SeamlessID:        org.SeamlessID,
		Name:              org.Name,
		DefaultAllocation: org.DefaultAllocation,
		CreatedAt:         org.CreatedAt,
		UpdatedAt:         org.UpdatedAt,
	}
}

// resolveOrganization path-параметр :org принимает как числовой id, так и имя.
func (h *OrganizationsHandler) resolveOrganization(c *gin.Context) (*domain.Organization, bool) {
	raw := c.Param("org")

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	var org *domain.Organization
	var err error
	if id, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
		org, err = h.orgSvs.GetByID(reqCtx, id)
	} else {
		org, err = h.orgSvs.GetByName(reqCtx, raw)
	}
	if err != nil {
		abortWithServiceError(c, "organization", err)
		return nil, false
	}
	return org, true
}

// Create POST RouteGroup + OrganizationsRoute.
func (h *OrganizationsHandler) Create(c *gin.Context) {
	var params OrganizationParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	org, err := h.orgSvs.Create(reqCtx, repoargs.CreateOrganization{
		SeamlessID:        params.SeamlessID,
		Name:              params.Name,
		DefaultAllocation: parseMoneyPtr(params.DefaultAllocation),
	})
	if err != nil {
		abortWithServiceError(c, "organization", err)
		return
	}

	c.JSON(http.StatusCreated, newOrganizationResponse(org))
}

// Index GET RouteGroup + OrganizationsRoute.
func (h *OrganizationsHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orgs, err := h.orgSvs.List(reqCtx)
	if err != nil {
		abortWithServiceError(c, "organization", err)
		return
	}

	response := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		response[i] = newOrganizationResponse(&orgs[i])
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + OrganizationRoute.
func (h *OrganizationsHandler) Show(c *gin.Context) {
	org, ok := h.resolveOrganization(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newOrganizationResponse(org))
}

// Update PUT RouteGroup + OrganizationRoute.
func (h *OrganizationsHandler) Update(c *gin.Context) {
	org, ok := h.resolveOrganization(c)
	if !ok {
		return
	}

	var params OrganizationUpdateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	updated, err := h.orgSvs.Update(reqCtx, org.ID, repoargs.UpdateOrganization{
		SeamlessID:        params.SeamlessID,
		Name:              params.Name,
		DefaultAllocation: parseMoneyPtr(params.DefaultAllocation),
	})
	if err != nil {
		abortWithServiceError(c, "organization", err)
		return
	}
	c.JSON(http.StatusOK, newOrganizationResponse(updated))
}

// Destroy DELETE RouteGroup + OrganizationRoute. Организация с юзерами защищена
// внешним ключом и удалена не будет.
func (h *OrganizationsHandler) Destroy(c *gin.Context) {
	org, ok := h.resolveOrganization(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.orgSvs.Delete(reqCtx, org.ID); err != nil {
		abortWithServiceError(c, "organization", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Orders GET RouteGroup + OrganizationOrdersRoute[ + /:date].
// Без даты возвращаются заказы организации за все даты.
func (h *OrganizationsHandler) Orders(c *gin.Context) {
	org, ok := h.resolveOrganization(c)
	if !ok {
		return
	}

	var date *time.Time
	if raw := c.Param("date"); raw != "" {
		parsed, dateOK := parseDateParam(c, raw)
		if !dateOK {
			return
		}
		date = &parsed
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := h.orderSvs.GetByOrganization(reqCtx, org.ID, date)
	if err != nil {
		abortWithServiceError(c, "order", err)
		return
	}

	response := make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = newOrderResponse(&orders[i])
	}
	c.JSON(http.StatusOK, response)
}

type UnallocatedEntryResponse struct {
	ID          int64           `json:"id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Unallocated currency.Amount `json:"unallocated"`
	Karma       currency.Amount `json:"karma"`
}

type UnallocatedResponse struct {
	TotalUnallocated currency.Amount            `json:"total_unallocated"`
	Data             []UnallocatedEntryResponse `json:"data"`
}

// Unallocated GET RouteGroup + UnallocatedRoute.
// Отчет по нераспределенным деньгам юзеров организации на дату, отсортированный
// по убыванию остатка; при равных остатках первым идет юзер с меньшей кармой.
// Query-флаг nonparticipants=true включает юзеров без заказов на эту дату.
func (h *OrganizationsHandler) Unallocated(c *gin.Context) {
	org, ok := h.resolveOrganization(c)
	if !ok {
		return
	}
	date, ok := parseDateParam(c, c.Param("date"))
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	report, err := h.allocSvs.UnallocatedReport(reqCtx, org.ID, date, parseBoolQuery(c, "nonparticipants"))
	if err != nil {
		abortWithServiceError(c, "organization", err)
		return
	}

	data := make([]UnallocatedEntryResponse, len(report.Entries))
	for i, entry := range report.Entries {
		data[i] = UnallocatedEntryResponse{
			ID:          entry.UserID,
			FirstName:   entry.FirstName,
			LastName:    entry.LastName,
			Unallocated: entry.Unallocated,
			Karma:       entry.Karma,
		}
	}
	c.JSON(http.StatusOK, UnallocatedResponse{
		TotalUnallocated: report.TotalUnallocated,
		Data:             data,
	})
}
