package api

import (
	"io"
	"net/http"
	"testing"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/logger"
	"github.com/fsdevblog/seamless-karma/internal/service"
	"github.com/fsdevblog/seamless-karma/internal/transport/api/mocks"
	"github.com/fsdevblog/seamless-karma/internal/transport/api/testutils"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type UsersHandlerTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	router           *gin.Engine
	mockUserService  *mocks.MockUserServicer
	mockOrderService *mocks.MockOrderServicer
}

func TestUsersHandlerSuite(t *testing.T) {
	suite.Run(t, new(UsersHandlerTestSuite))
}

func (s *UsersHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUserService = mocks.NewMockUserServicer(s.mockCtrl)
	s.mockOrderService = mocks.NewMockOrderServicer(s.mockCtrl)

	s.router = New(RouterArgs{
		Logger:       logger.New(io.Discard),
		UserService:  s.mockUserService,
		OrderService: s.mockOrderService,
	})
}

func (s *UsersHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *UsersHandlerTestSuite) TestCreate() {
	alloc := currency.MustFromString("12.50")
	user := domain.User{
		ID:             1,
		Username:       "alice",
		FirstName:      "Alice",
		LastName:       "Liddell",
		Allocation:     alloc,
		OrganizationID: 7,
	}

	s.mockUserService.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, args service.CreateUserArgs) (*domain.User, error) {
			s.Equal("alice", args.Username)
			s.Require().NotNil(args.Allocation)
			s.Equal("12.50", args.Allocation.String())
			s.Equal("Acme", args.OrganizationName)
			s.Nil(args.OrganizationID)
			return &user, nil
		})
	// карма входит в выдачу юзера; у нового юзера она нулевая.
	s.mockUserService.EXPECT().Karma(gomock.Any(), user.ID).Return(currency.Zero(), nil)

	res, err := testutils.MakeJSONRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    "/api/users",
	}, gin.H{
		"username":     "alice",
		"first_name":   "Alice",
		"last_name":    "Liddell",
		"allocation":   "12.50",
		"organization": "Acme",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusCreated, res.StatusCode)

	var body UserResponse
	s.Require().NoError(testutils.ParseJSONBody(res, &body))
	s.Equal("12.50", body.Allocation.String())
	s.Equal("0.00", body.Karma.String())
}

func (s *UsersHandlerTestSuite) TestCreate_BothOrganizationSpecifiers() {
	res, err := testutils.MakeJSONRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    "/api/users",
	}, gin.H{
		"username":        "alice",
		"first_name":      "Alice",
		"last_name":       "Liddell",
		"organization":    "Acme",
		"organization_id": 7,
	})
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, res.StatusCode)
}

func (s *UsersHandlerTestSuite) TestCreate_MalformedAllocation() {
	res, err := testutils.MakeJSONRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    "/api/users",
	}, gin.H{
		"username":     "alice",
		"first_name":   "Alice",
		"last_name":    "Liddell",
		"allocation":   "twelve fifty",
		"organization": "Acme",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, res.StatusCode)
}

func (s *UsersHandlerTestSuite) TestCreate_OrganizationNotCreatable() {
	s.mockUserService.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrOrganizationNotCreatable)

	res, err := testutils.MakeJSONRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    "/api/users",
	}, gin.H{
		"username":     "alice",
		"first_name":   "Alice",
		"last_name":    "Liddell",
		"organization": "GhostCo",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, res.StatusCode)

	var body map[string]any
	s.Require().NoError(testutils.ParseJSONBody(res, &body))
	s.Contains(body["error"], "organization")
}

func (s *UsersHandlerTestSuite) TestShow_ByUsername() {
	user := domain.User{ID: 5, Username: "bob", Allocation: currency.MustFromString("10.00")}
	s.mockUserService.EXPECT().GetByUsername(gomock.Any(), "bob").Return(&user, nil)
	s.mockUserService.EXPECT().Karma(gomock.Any(), user.ID).Return(currency.MustFromString("4.20"), nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    "/api/users/bob",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body UserResponse
	s.Require().NoError(testutils.ParseJSONBody(res, &body))
	s.Equal("bob", body.Username)
	s.Equal("4.20", body.Karma.String())
}

func (s *UsersHandlerTestSuite) TestShow_NotFound() {
	s.mockUserService.EXPECT().GetByID(gomock.Any(), int64(999)).Return(nil, domain.ErrRecordNotFound)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    "/api/users/999",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusNotFound, res.StatusCode)
}

func (s *UsersHandlerTestSuite) TestOrders() {
	user := domain.User{ID: 5, Username: "bob"}
	s.mockUserService.EXPECT().GetByUsername(gomock.Any(), "bob").Return(&user, nil)
	s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), user.ID).
		Return([]domain.Order{{ID: 1}, {ID: 2}}, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    "/api/users/bob/orders",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body []OrderResponse
	s.Require().NoError(testutils.ParseJSONBody(res, &body))
	s.Len(body, 2)
}

func (s *UsersHandlerTestSuite) TestDestroy() {
	user := domain.User{ID: 5, Username: "bob"}
	s.mockUserService.EXPECT().GetByID(gomock.Any(), user.ID).Return(&user, nil)
	s.mockUserService.EXPECT().Delete(gomock.Any(), user.ID).Return(nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodDelete,
		URL:    "/api/users/5",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusNoContent, res.StatusCode)
}

func (s *UsersHandlerTestSuite) TestIndex_SingleKarmaQuery() {
	users := []domain.User{
		{ID: 1, Username: "alice", FirstName: "Alice", LastName: "Liddell", OrganizationID: 7},
		{ID: 2, Username: "bob", FirstName: "Bob", LastName: "Sponge", OrganizationID: 7},
		{ID: 3, Username: "carol", FirstName: "Carol", LastName: "Danvers", OrganizationID: 7},
	}
	s.mockUserService.EXPECT().List(gomock.Any()).Return(users, nil)
	// карма всего списка считается одним батчевым вызовом, без вызова на юзера
	s.mockUserService.EXPECT().Karmas(gomock.Any(), []int64{1, 2, 3}).
		Return(map[int64]currency.Amount{
			1: currency.MustFromString("4.20"),
			2: currency.MustFromString("-4.20"),
			3: currency.Zero(),
		}, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    "/api/users",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body []UserResponse
	s.Require().NoError(testutils.ParseJSONBody(res, &body))
	s.Require().Len(body, 3)
	s.Equal("4.20", body[0].Karma.String())
	s.Equal("-4.20", body[1].Karma.String())
	s.Equal("0.00", body[2].Karma.String())
}

func (s *UsersHandlerTestSuite) TestIndex_Empty() {
	s.mockUserService.EXPECT().List(gomock.Any()).Return(nil, nil)
	s.mockUserService.EXPECT().Karmas(gomock.Any(), []int64{}).
		Return(map[int64]currency.Amount{}, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    "/api/users",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body []UserResponse
	s.Require().NoError(testutils.ParseJSONBody(res, &body))
	s.Empty(body)
}
