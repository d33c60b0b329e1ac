package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/internal/service"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	userSvs  UserServicer
	orderSvs OrderServicer
}

func NewUsersHandler(userSvs UserServicer, orderSvs OrderServicer) *UsersHandler {
	return &UsersHandler{
		userSvs:  userSvs,
		orderSvs: orderSvs,
	}
}

// UserParams организация задается либо organization_id, либо organization (имя).
// Ровно одно из двух. allocation опционален только когда его есть откуда взять:
// у организации должен быть default_allocation.
type UserParams struct {
	SeamlessID     *int64  `json:"seamless_id"`
	Username       string  `json:"username" binding:"required"`
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	Allocation     *string `json:"allocation" binding:"omitempty,money"`
	OrganizationID *int64  `json:"organization_id"`
	Organization   string  `json:"organization"`
}

type UserUpdateParams struct {
	SeamlessID *int64  `json:"seamless_id"`
	Username   *string `json:"username" binding:"omitempty,min=1"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Allocation *string `json:"allocation" binding:"omitempty,money"`
}

type UserResponse struct {
	ID             int64           `json:"id"`
	SeamlessID     *int64          `json:"seamless_id"`
	Username       string          `json:"username"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Allocation     currency.Amount `json:"allocation"`
	OrganizationID int64           `json:"organization_id"`
	Karma          currency.Amount `json:"karma"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// newUserResponse карма считается движком на каждую выдачу юзера: у юзера без
// единого взноса она ровно "0.00".
func (h *UsersHandler) newUserResponse(ctx context.Context, user *domain.User) (UserResponse, error) {
	karma, err := h.userSvs.Karma(ctx, user.ID)
	if err != nil {
		return UserResponse{}, err
	}
	return userResponse(user, karma), nil
}

func userResponse(user *domain.User, karma currency.Amount) UserResponse {
	return UserResponse{
		ID:             user.ID,
		SeamlessID:     user.SeamlessID,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Allocation:     user.Allocation,
		OrganizationID: user.OrganizationID,
		Karma:          karma,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// resolveUser path-параметр :user принимает как числовой id, так и username.
func (h *UsersHandler) resolveUser(c *gin.Context) (*domain.User, bool) {
	raw := c.Param("user")

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	var user *domain.User
	var err error
	if id, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
		user, err = h.userSvs.GetByID(reqCtx, id)
	} else {
		user, err = h.userSvs.GetByUsername(reqCtx, raw)
	}
	if err != nil {
		abortWithServiceError(c, "user", err)
		return nil, false
	}
	return user, true
}

// Create POST RouteGroup + UsersRoute.
func (h *UsersHandler) Create(c *gin.Context) {
	var params UserParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if (params.OrganizationID == nil) == (params.Organization == "") {
		_ = c.AbortWithError(http.StatusBadRequest,
			domain.NewValidationError("user", "organization",
				"exactly one of organization_id or organization is required")).SetType(gin.ErrorTypePublic)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userSvs.Create(reqCtx, service.CreateUserArgs{
		SeamlessID:       params.SeamlessID,
		Username:         params.Username,
		FirstName:        params.FirstName,
		LastName:         params.LastName,
		Allocation:       parseMoneyPtr(params.Allocation),
		OrganizationID:   params.OrganizationID,
		OrganizationName: params.Organization,
	})
	if err != nil {
		abortWithServiceError(c, "user", err)
		return
	}

	response, respErr := h.newUserResponse(reqCtx, user)
	if respErr != nil {
		abortWithServiceError(c, "user", respErr)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// Index GET RouteGroup + UsersRoute.
func (h *UsersHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	users, err := h.userSvs.List(reqCtx)
	if err != nil {
		abortWithServiceError(c, "user", err)
		return
	}

	// Карма всего списка считается одним запросом, а не по запросу на юзера.
	userIDs := make([]int64, len(users))
	for i := range users {
		userIDs[i] = users[i].ID
	}
	karmas, karmaErr := h.userSvs.Karmas(reqCtx, userIDs)
	if karmaErr != nil {
		abortWithServiceError(c, "user", karmaErr)
		return
	}

	response := make([]UserResponse, len(users))
	for i := range users {
		response[i] = userResponse(&users[i], karmas[users[i].ID])
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + UserRoute.
func (h *UsersHandler) Show(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	response, err := h.newUserResponse(reqCtx, user)
	if err != nil {
		abortWithServiceError(c, "user", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Update PUT RouteGroup + UserRoute.
func (h *UsersHandler) Update(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	var params UserUpdateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	updated, err := h.userSvs.Update(reqCtx, user.ID, repoargs.UpdateUser{
		SeamlessID: params.SeamlessID,
		Username:   params.Username,
		FirstName:  params.FirstName,
		LastName:   params.LastName,
		Allocation: parseMoneyPtr(params.Allocation),
	})
	if err != nil {
		abortWithServiceError(c, "user", err)
		return
	}

	response, respErr := h.newUserResponse(reqCtx, updated)
	if respErr != nil {
		abortWithServiceError(c, "user", respErr)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Destroy DELETE RouteGroup + UserRoute.
func (h *UsersHandler) Destroy(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userSvs.Delete(reqCtx, user.ID); err != nil {
		abortWithServiceError(c, "user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Orders GET RouteGroup + UserOrdersRoute. Заказы с участием юзера: как собственные,
// так и чужие с его взносом.
func (h *UsersHandler) Orders(c *gin.Context) {
	user, ok := h.resolveUser(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := h.orderSvs.GetByUserID(reqCtx, user.ID)
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
