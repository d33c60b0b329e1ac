package api

import (
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/logger"
	"github.com/fsdevblog/seamless-karma/internal/transport/api/mocks"
	"github.com/fsdevblog/seamless-karma/internal/transport/api/testutils"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type OrganizationsHandlerTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	router           *gin.Engine
	mockOrgService   *mocks.MockOrganizationServicer
	mockOrderService *mocks.MockOrderServicer
	mockAllocService *mocks.MockAllocationServicer
}

func TestOrganizationsHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrganizationsHandlerTestSuite))
}

func (s *OrganizationsHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.mockCtrl = gomock.NewController(s.T())
	s.mockOrgService = mocks.NewMockOrganizationServicer(s.mockCtrl)
	s.mockOrderService = mocks.NewMockOrderServicer(s.mockCtrl)
	s.mockAllocService = mocks.NewMockAllocationServicer(s.mockCtrl)

	s.router = New(RouterArgs{
		Logger:              logger.New(io.Discard),
		OrganizationService: s.mockOrgService,
		OrderService:        s.mockOrderService,
		AllocationService:   s.mockAllocService,
	})
}

func (s *OrganizationsHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *OrganizationsHandlerTestSuite) TestShow_ByName() {
	org := domain.Organization{ID: 7, Name: "Acme"}
	s.mockOrgService.EXPECT().GetByName(gomock.Any(), "Acme").Return(&org, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    "/api/organizations/Acme",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body OrganizationResponse
	s.Require().NoError(testutils.ParseJSONBody(res, &body))
	s.Equal(int64(7), body.ID)
	s.Equal("Acme", body.Name)
}

func (s *OrganizationsHandlerTestSuite) TestShow_NotFound() {
	s.mockOrgService.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, domain.ErrRecordNotFound)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    "/api/organizations/404",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusNotFound, res.StatusCode)
}

func (s *OrganizationsHandlerTestSuite) TestCreate_DuplicateName() {
	s.mockOrgService.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateKey)

	res, err := testutils.MakeJSONRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    "/api/organizations",
	}, gin.H{"name": "Acme"})
	s.Require().NoError(err)
	s.Equal(http.StatusConflict, res.StatusCode)
}

func (s *OrganizationsHandlerTestSuite) TestUnallocated() {
	org := domain.Organization{ID: 7, Name: "Acme"}
	date := time.Date(2015, 12, 4, 0, 0, 0, 0, time.UTC)
	report := domain.UnallocatedReport{
		TotalUnallocated: currency.MustFromString("10.40"),
		Entries: []domain.UnallocatedReportEntry{
			// при равных остатках первым идет юзер с меньшей кармой.
			{UserID: 2, FirstName: "U2", LastName: "L2",
				Unallocated: currency.MustFromString("5.20"), Karma: currency.MustFromString("-3.20")},
			{UserID: 1, FirstName: "U1", LastName: "L1",
				Unallocated: currency.MustFromString("5.20"), Karma: currency.MustFromString("8.20")},
		},
	}

	s.mockOrgService.EXPECT().GetByID(gomock.Any(), org.ID).Return(&org, nil)
	s.mockAllocService.EXPECT().
		UnallocatedReport(gomock.Any(), org.ID, date, false).
		Return(&report, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    fmt.Sprintf("/api/organizations/%d/orders/2015-12-04/unallocated", org.ID),
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body UnallocatedResponse
	s.Require().NoError(testutils.ParseJSONBody(res, &body))
	s.Equal("10.40", body.TotalUnallocated.String())
	s.Require().Len(body.Data, 2)
	s.Equal(int64(2), body.Data[0].ID)
	s.Equal("-3.20", body.Data[0].Karma.String())
	s.Equal(int64(1), body.Data[1].ID)
}

func (s *OrganizationsHandlerTestSuite) TestUnallocated_Empty() {
	org := domain.Organization{ID: 7, Name: "Acme"}
	s.mockOrgService.EXPECT().GetByID(gomock.Any(), org.ID).Return(&org, nil)
	s.mockAllocService.EXPECT().
		UnallocatedReport(gomock.Any(), org.ID, gomock.Any(), false).
		Return(&domain.UnallocatedReport{TotalUnallocated: currency.Zero()}, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    "/api/organizations/7/orders/2015-12-04/unallocated",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var raw map[string]any
	s.Require().NoError(testutils.ParseJSONBody(res, &raw))
	// пустой набор - это "0.00" и пустой массив, не null.
	s.Equal("0.00", raw["total_unallocated"])
	s.Equal([]any{}, raw["data"])
}

func (s *OrganizationsHandlerTestSuite) TestUnallocated_Nonparticipants() {
	org := domain.Organization{ID: 7, Name: "Acme"}
	s.mockOrgService.EXPECT().GetByID(gomock.Any(), org.ID).Return(&org, nil)
	s.mockAllocService.EXPECT().
		UnallocatedReport(gomock.Any(), org.ID, gomock.Any(), true).
		Return(&domain.UnallocatedReport{TotalUnallocated: currency.Zero()}, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    "/api/organizations/7/orders/2015-12-04/unallocated?nonparticipants=true",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)
}

func (s *OrganizationsHandlerTestSuite) TestUnallocated_BadDate() {
	org := domain.Organization{ID: 7, Name: "Acme"}
	s.mockOrgService.EXPECT().GetByID(gomock.Any(), org.ID).Return(&org, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    "/api/organizations/7/orders/04-12-2015/unallocated",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, res.StatusCode)
}

func (s *OrganizationsHandlerTestSuite) TestOrders_WithDate() {
	org := domain.Organization{ID: 7, Name: "Acme"}
	date := time.Date(2015, 12, 4, 0, 0, 0, 0, time.UTC)

	s.mockOrgService.EXPECT().GetByName(gomock.Any(), "Acme").Return(&org, nil)
	s.mockOrderService.EXPECT().
		GetByOrganization(gomock.Any(), org.ID, &date).
		Return([]domain.Order{{ID: 1, ForDate: date, PlacedAt: date}}, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    "/api/organizations/Acme/orders/2015-12-04",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body []OrderResponse
	s.Require().NoError(testutils.ParseJSONBody(res, &body))
	s.Require().Len(body, 1)
	s.Equal("2015-12-04", body[0].ForDate)
}
