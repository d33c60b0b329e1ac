package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/service"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/gin-gonic/gin"
)

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type ContributionParams struct {
	UserID int64  `json:"user_id" binding:"required"`
	Amount string `json:"amount" binding:"required,money"`
}

// OrderParams заказ создается вместе со списком взносов; хотя бы один взнос обязателен.
// for_date по умолчанию сегодня, placed_at - текущий момент.
type OrderParams struct {
	SeamlessID    *int64               `json:"seamless_id"`
	ForDate       *string              `json:"for_date" binding:"omitempty,datetime=2006-01-02"`
	PlacedAt      *time.Time           `json:"placed_at"`
	VendorID      int64                `json:"vendor_id" binding:"required"`
	OrderedByID   int64                `json:"ordered_by_id" binding:"required"`
	Contributions []ContributionParams `json:"contributions" binding:"required,min=1,dive"`
}

type OrderUpdateParams struct {
	SeamlessID *int64     `json:"seamless_id"`
	ForDate    *string    `json:"for_date" binding:"omitempty,datetime=2006-01-02"`
	PlacedAt   *time.Time `json:"placed_at"`
	VendorID   *int64     `json:"vendor_id"`
	// Contributions null не трогает взносы, непустой список атомарно заменяет их состав.
	Contributions []ContributionParams `json:"contributions" binding:"omitempty,dive"`
}

type ContributionResponse struct {
	UserID int64           `json:"user_id"`
	Amount currency.Amount `json:"amount"`
}

type OrderResponse struct {
	ID            int64                  `json:"id"`
	SeamlessID    *int64                 `json:"seamless_id"`
	ForDate       string                 `json:"for_date"`
	PlacedAt      time.Time              `json:"placed_at"`
	VendorID      int64                  `json:"vendor_id"`
	OrderedByID   int64                  `json:"ordered_by_id"`
	TotalAmount   currency.Amount        `json:"total_amount"`
	Contributions []ContributionResponse `json:"contributions"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func newOrderResponse(order *domain.Order) OrderResponse {
	contributions := make([]ContributionResponse, len(order.Contributions))
	for i, contribution := range order.Contributions {
		contributions[i] = ContributionResponse{
			UserID: contribution.UserID,
			Amount: contribution.Amount,
		}
	}
	return OrderResponse{
		ID:            order.ID,
		SeamlessID:    order.SeamlessID,
		ForDate:       order.ForDate.Format(time.DateOnly),
		PlacedAt:      order.PlacedAt,
		VendorID:      order.VendorID,
		OrderedByID:   order.OrderedByID,
		TotalAmount:   order.TotalAmount(),
		Contributions: contributions,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func parseContributions(params []ContributionParams) []service.ContributionArgs {
	if params == nil {
		return nil
	}
	contributions := make([]service.ContributionArgs, len(params))
	for i, p := range params {
		contributions[i] = service.ContributionArgs{
			UserID: p.UserID,
			Amount: parseMoney(p.Amount),
		}
	}
	return contributions
}

// parseForDate строка уже прошла binding тег datetime.
func parseForDate(s string) time.Time {
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return date
}

// Create POST RouteGroup + OrdersRoute. Опущенная for_date означает текущую
// дату в UTC: граница суток одна и та же независимо от пояса сервера, поэтому
// около полуночи локальная "сегодня" может отличаться от выбранной. Клиент,
// которому нужна дата в его поясе, передает for_date явно.
func (h *OrdersHandler) Create(c *gin.Context) {
	var params OrderParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	now := time.Now().UTC()
	forDate := now.Truncate(24 * time.Hour)
	if params.ForDate != nil {
		forDate = parseForDate(*params.ForDate)
	}
	placedAt := now
	if params.PlacedAt != nil {
		placedAt = *params.PlacedAt
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := h.orderSvs.Create(reqCtx, service.CreateOrderArgs{
		SeamlessID:    params.SeamlessID,
		ForDate:       forDate,
		PlacedAt:      placedAt,
		VendorID:      params.VendorID,
		OrderedByID:   params.OrderedByID,
		Contributions: parseContributions(params.Contributions),
	})
	if err != nil {
		abortWithServiceError(c, "order", err)
		return
	}
	c.JSON(http.StatusCreated, newOrderResponse(order))
}

// Index GET RouteGroup + OrdersRoute.
func (h *OrdersHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := h.orderSvs.List(reqCtx)
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

// Show GET RouteGroup + OrderRoute.
func (h *OrdersHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := h.orderSvs.GetByID(reqCtx, id)
	if err != nil {
		abortWithServiceError(c, "order", err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(order))
}

// Update PUT RouteGroup + OrderRoute.
func (h *OrdersHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var params OrderUpdateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	var forDate *time.Time
	if params.ForDate != nil {
		parsed := parseForDate(*params.ForDate)
		forDate = &parsed
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := h.orderSvs.Update(reqCtx, id, service.UpdateOrderArgs{
		SeamlessID:    params.SeamlessID,
		ForDate:       forDate,
		PlacedAt:      params.PlacedAt,
		VendorID:      params.VendorID,
		Contributions: parseContributions(params.Contributions),
	})
	if err != nil {
		abortWithServiceError(c, "order", err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(order))
}

// Destroy DELETE RouteGroup + OrderRoute. Вместе с заказом уходят все его взносы.
func (h *OrdersHandler) Destroy(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.orderSvs.Delete(reqCtx, id); err != nil {
		abortWithServiceError(c, "order", err)
		return
	}
	c.Status(http.StatusNoContent)
}
