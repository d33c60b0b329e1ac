package api

import (
	"time"

	"github.com/fsdevblog/seamless-karma/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup = "/api"

	OrganizationsRoute          = "/organizations"
	OrganizationRoute           = "/organizations/:org"
	OrganizationOrdersRoute     = "/organizations/:org/orders"
	OrganizationOrdersDateRoute = "/organizations/:org/orders/:date"
	UnallocatedRoute            = "/organizations/:org/orders/:date/unallocated"

	UsersRoute      = "/users"
	UserRoute       = "/users/:user"
	UserOrdersRoute = "/users/:user/orders"

	VendorsRoute = "/vendors"
	VendorRoute  = "/vendors/:id"

	OrdersRoute = "/orders"
	OrderRoute  = "/orders/:id"
)

type RouterArgs struct {
	Logger              *logrus.Logger
	OrganizationService OrganizationServicer
	VendorService       VendorServicer
	UserService         UserServicer
	OrderService        OrderServicer
	AllocationService   AllocationServicer
}

func New(args RouterArgs) *gin.Engine {
	if err := registerValidators(); err != nil {
		panic(err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	orgsHandler := NewOrganizationsHandler(args.OrganizationService, args.OrderService, args.AllocationService)
	usersHandler := NewUsersHandler(args.UserService, args.OrderService)
	vendorsHandler := NewVendorsHandler(args.VendorService)
	ordersHandler := NewOrdersHandler(args.OrderService)

	api := r.Group(RouteGroup)

	api.POST(OrganizationsRoute, orgsHandler.Create)
	api.GET(OrganizationsRoute, orgsHandler.Index)
	api.GET(OrganizationRoute, orgsHandler.Show)
	api.PUT(OrganizationRoute, orgsHandler.Update)
	api.DELETE(OrganizationRoute, orgsHandler.Destroy)
	api.GET(OrganizationOrdersRoute, orgsHandler.Orders)
	api.GET(OrganizationOrdersDateRoute, orgsHandler.Orders)
	api.GET(UnallocatedRoute, orgsHandler.Unallocated)

	api.POST(UsersRoute, usersHandler.Create)
	api.GET(UsersRoute, usersHandler.Index)
	api.GET(UserRoute, usersHandler.Show)
	api.PUT(UserRoute, usersHandler.Update)
	api.DELETE(UserRoute, usersHandler.Destroy)
	api.GET(UserOrdersRoute, usersHandler.Orders)

	api.POST(VendorsRoute, vendorsHandler.Create)
	api.GET(VendorsRoute, vendorsHandler.Index)
	api.GET(VendorRoute, vendorsHandler.Show)
	api.PUT(VendorRoute, vendorsHandler.Update)
	api.DELETE(VendorRoute, vendorsHandler.Destroy)

	api.POST(OrdersRoute, ordersHandler.Create)
	api.GET(OrdersRoute, ordersHandler.Index)
	api.GET(OrderRoute, ordersHandler.Show)
	api.PUT(OrderRoute, ordersHandler.Update)
	api.DELETE(OrderRoute, ordersHandler.Destroy)

	return r
}
