package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/internal/service/mocks"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/fsdevblog/seamless-karma/pkg/uow"
	uowmocks "github.com/fsdevblog/seamless-karma/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockUOW       *uowmocks.MockUOW
	mockTX        *uowmocks.MockTX
	mockOrderRepo *mocks.MockOrderRepository
	service       *OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()

	var err error
	s.service, err = NewOrderService(s.mockUOW)
	s.Require().NoError(err)
}

func (s *OrderServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *OrderServiceTestSuite) expectTx() {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	).Times(1)
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
}

func (s *OrderServiceTestSuite) TestCreate() {
	forDate := time.Date(2015, 12, 4, 0, 0, 0, 0, time.UTC)
	args := CreateOrderArgs{
		ForDate:     forDate,
		PlacedAt:    forDate.Add(11 * time.Hour),
		VendorID:    1,
		OrderedByID: 10,
		Contributions: []ContributionArgs{
			{UserID: 10, Amount: currency.MustFromString("8.50")},
			{UserID: 11, Amount: currency.MustFromString("4.80")},
		},
	}
	created := domain.Order{ID: 100, ForDate: forDate, VendorID: 1, OrderedByID: 10}
	loaded := created
	loaded.Contributions = []domain.OrderContribution{
		{UserID: 10, OrderID: 100, Amount: currency.MustFromString("8.50")},
		{UserID: 11, OrderID: 100, Amount: currency.MustFromString("4.80")},
	}

	s.expectTx()
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a repoargs.CreateOrder) (*domain.Order, error) {
			s.Equal(forDate, a.ForDate)
			s.Equal(int64(10), a.OrderedByID)
			return &created, nil
		})
	s.mockOrderRepo.EXPECT().
		BatchCreateContributions(gomock.Any(), created.ID, gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ int64, contributions []repoargs.ContributionCreate, fn repoargs.BatchExecQueryRow) {
			s.Require().Len(contributions, 2)
			for i := range contributions {
				fn(i, nil)
			}
		})
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), created.ID).Return(&loaded, nil)

	order, err := s.service.Create(s.T().Context(), args)
	s.Require().NoError(err)
	s.Len(order.Contributions, 2)
	s.True(currency.MustFromString("13.30").Equal(order.TotalAmount()))
}

func (s *OrderServiceTestSuite) TestCreate_NoContributions() {
	_, err := s.service.Create(s.T().Context(), CreateOrderArgs{
		ForDate:     time.Now(),
		VendorID:    1,
		OrderedByID: 10,
	})
	var valErr *domain.ValidationError
	s.Require().ErrorAs(err, &valErr)
	s.Equal("contributions", valErr.Field)
}

func (s *OrderServiceTestSuite) TestCreate_DuplicateContributor() {
	_, err := s.service.Create(s.T().Context(), CreateOrderArgs{
		ForDate:     time.Now(),
		VendorID:    1,
		OrderedByID: 10,
		Contributions: []ContributionArgs{
			{UserID: 10, Amount: currency.MustFromString("5.00")},
			{UserID: 10, Amount: currency.MustFromString("5.00")},
		},
	})
	var valErr *domain.ValidationError
	s.Require().ErrorAs(err, &valErr)
	s.Contains(valErr.Message, "duplicate contributor")
}

func (s *OrderServiceTestSuite) TestCreate_UnknownContributor() {
	s.expectTx()
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&domain.Order{ID: 101}, nil)
	// Нарушение внешнего ключа по user_id превращается в ошибку валидации.
	s.mockOrderRepo.EXPECT().
		BatchCreateContributions(gomock.Any(), int64(101), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ int64, _ []repoargs.ContributionCreate, fn repoargs.BatchExecQueryRow) {
			fn(0, domain.ErrForeignKeyViolation)
		})

	_, err := s.service.Create(s.T().Context(), CreateOrderArgs{
		ForDate:     time.Now(),
		VendorID:    1,
		OrderedByID: 10,
		Contributions: []ContributionArgs{
			{UserID: 999, Amount: currency.MustFromString("5.00")},
		},
	})
	var valErr *domain.ValidationError
	s.Require().ErrorAs(err, &valErr)
	s.Contains(valErr.Message, "999")
}

func (s *OrderServiceTestSuite) TestUpdate_ReplaceContributions() {
	orderID := int64(55)
	replacement := []ContributionArgs{
		{UserID: 12, Amount: currency.MustFromString("7.00")},
	}
	loaded := domain.Order{ID: orderID, Contributions: []domain.OrderContribution{
		{UserID: 12, OrderID: orderID, Amount: currency.MustFromString("7.00")},
	}}

	s.expectTx()
	s.mockOrderRepo.EXPECT().Update(gomock.Any(), orderID, gomock.Any()).
		Return(&domain.Order{ID: orderID}, nil)
	s.mockOrderRepo.EXPECT().DeleteContributions(gomock.Any(), orderID).Return(nil)
	s.mockOrderRepo.EXPECT().
		BatchCreateContributions(gomock.Any(), orderID, gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ int64, contributions []repoargs.ContributionCreate, fn repoargs.BatchExecQueryRow) {
			s.Require().Len(contributions, 1)
			fn(0, nil)
		})
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), orderID).Return(&loaded, nil)

	order, err := s.service.Update(s.T().Context(), orderID, UpdateOrderArgs{Contributions: replacement})
	s.Require().NoError(err)
	s.Len(order.Contributions, 1)
	s.Equal(int64(12), order.Contributions[0].UserID)
}

func (s *OrderServiceTestSuite) TestUpdate_NotFound() {
	s.expectTx()
	s.mockOrderRepo.EXPECT().Update(gomock.Any(), int64(404), gomock.Any()).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.service.Update(s.T().Context(), 404, UpdateOrderArgs{})
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *OrderServiceTestSuite) TestDelete() {
	s.mockOrderRepo.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)
	s.Require().NoError(s.service.Delete(s.T().Context(), 5))
}

func (s *OrderServiceTestSuite) TestGetByOrganization() {
	date := time.Date(2015, 12, 4, 0, 0, 0, 0, time.UTC)
	s.mockOrderRepo.EXPECT().
		GetByOrganization(gomock.Any(), repoargs.OrdersByOrganization{OrganizationID: 1, Date: &date}).
		Return([]domain.Order{{ID: 1}, {ID: 2}}, nil)

	orders, err := s.service.GetByOrganization(s.T().Context(), 1, &date)
	s.Require().NoError(err)
	s.Len(orders, 2)
}
