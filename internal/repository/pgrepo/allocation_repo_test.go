package pgrepo

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/logger"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
)

// Интеграционные тесты запросной формы движка karma/allocation против живого
// постгреса. Объектная форма domain считает те же величины на тех же данных,
// обе формы обязаны сойтись копейка в копейку. Без TEST_DATABASE_URI сьют
// пропускается.
type AllocationRepositoryTestSuite struct {
	suite.Suite
	pool      *pgxpool.Pool
	allocRepo *AllocationRepository
	orgRepo   *OrganizationRepository
	userRepo  *UserRepository
	orderRepo *OrderRepository

	orgID    int64
	vendorID int64
}

func TestAllocationRepositorySuite(t *testing.T) {
	suite.Run(t, new(AllocationRepositoryTestSuite))
}

func (s *AllocationRepositoryTestSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URI")
	if dsn == "" {
		s.T().Skip("TEST_DATABASE_URI is not set")
	}

	pool, err := Connect(context.Background(), "../../db/migrations", dsn, logger.New(io.Discard))
	s.Require().NoError(err)
	s.pool = pool

	s.allocRepo = NewAllocationRepository(pool)
	s.orgRepo = NewOrganizationRepository(pool)
	s.userRepo = NewUserRepository(pool)
	s.orderRepo = NewOrderRepository(pool)
}

func (s *AllocationRepositoryTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *AllocationRepositoryTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.T().Context(),
		`TRUNCATE organizations, vendors, users, orders, order_contributions RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)

	org, orgErr := s.orgRepo.Create(s.T().Context(), repoargs.CreateOrganization{Name: "Acme"})
	s.Require().NoError(orgErr)
	s.orgID = org.ID

	vendorRepo := NewVendorRepository(s.pool)
	vendor, vendorErr := vendorRepo.Create(s.T().Context(), repoargs.CreateVendor{Name: "Pizzeria"})
	s.Require().NoError(vendorErr)
	s.vendorID = vendor.ID
}

var reportDate = time.Date(2015, 12, 4, 0, 0, 0, 0, time.UTC)

func (s *AllocationRepositoryTestSuite) createUser(username, allocation string) *domain.User {
	user, err := s.userRepo.Create(s.T().Context(), repoargs.CreateUser{
		Username:       username,
		FirstName:      username,
		LastName:       "Test",
		Allocation:     currency.MustFromString(allocation),
		OrganizationID: s.orgID,
	})
	s.Require().NoError(err)
	return user
}

func (s *AllocationRepositoryTestSuite) createOrder(
	orderedBy int64,
	forDate time.Time,
	contributions map[int64]string,
) *domain.Order {
	order, err := s.orderRepo.Create(s.T().Context(), repoargs.CreateOrder{
		ForDate:     forDate,
		PlacedAt:    forDate.Add(11 * time.Hour),
		VendorID:    s.vendorID,
		OrderedByID: orderedBy,
	})
	s.Require().NoError(err)

	var batch []repoargs.ContributionCreate
	for userID, amount := range contributions {
		batch = append(batch, repoargs.ContributionCreate{
			UserID: userID,
			Amount: currency.MustFromString(amount),
		})
	}
	s.orderRepo.BatchCreateContributions(s.T().Context(), order.ID, batch, func(i int, batchErr error) {
		s.Require().NoError(batchErr, "contribution #%d", i)
	})
	return order
}

// objectForm загружает юзера со всеми его заказами для пересчета объектной формой.
func (s *AllocationRepositoryTestSuite) objectForm(user *domain.User) domain.UserOrders {
	orders, err := s.orderRepo.GetParticipated(s.T().Context(), user.ID)
	s.Require().NoError(err)
	return domain.UserOrders{User: *user, Orders: orders}
}

func (s *AllocationRepositoryTestSuite) TestUserKarma_ZeroSumPair() {
	donor := s.createUser("donor", "10.00")
	owner := s.createUser("owner", "10.00")
	s.createOrder(owner.ID, reportDate, map[int64]string{
		owner.ID: "5.00",
		donor.ID: "10.00",
	})

	donorKarma, err := s.allocRepo.UserKarma(s.T().Context(), donor.ID)
	s.Require().NoError(err)
	s.Equal("10.00", donorKarma.String())

	ownerKarma, err := s.allocRepo.UserKarma(s.T().Context(), owner.ID)
	s.Require().NoError(err)
	s.Equal("-10.00", ownerKarma.String())

	// сумма карм пары нулевая, и оба значения совпадают с объектной формой
	s.Equal("0.00", donorKarma.Add(ownerKarma).String())
	donorUO := s.objectForm(donor)
	ownerUO := s.objectForm(owner)
	s.True(donorUO.Karma().Equal(donorKarma))
	s.True(ownerUO.Karma().Equal(ownerKarma))
}

func (s *AllocationRepositoryTestSuite) TestUserKarma_NoActivity() {
	user := s.createUser("idle", "10.00")

	karma, err := s.allocRepo.UserKarma(s.T().Context(), user.ID)
	s.Require().NoError(err)
	s.Equal("0.00", karma.String())
}

func (s *AllocationRepositoryTestSuite) TestUsersKarma_MatchesPerUser() {
	donor := s.createUser("donor", "10.00")
	owner := s.createUser("owner", "10.00")
	idle := s.createUser("idle", "10.00")
	s.createOrder(owner.ID, reportDate, map[int64]string{
		owner.ID: "3.00",
		donor.ID: "4.20",
	})

	karmas, err := s.allocRepo.UsersKarma(s.T().Context(), []int64{donor.ID, owner.ID, idle.ID})
	s.Require().NoError(err)
	s.Require().Len(karmas, 3)
	s.Equal("4.20", karmas[donor.ID].String())
	s.Equal("-4.20", karmas[owner.ID].String())
	// юзер без единого взноса присутствует в мапе с нулем
	s.Equal("0.00", karmas[idle.ID].String())

	for _, id := range []int64{donor.ID, owner.ID, idle.ID} {
		single, singleErr := s.allocRepo.UserKarma(s.T().Context(), id)
		s.Require().NoError(singleErr)
		s.True(single.Equal(karmas[id]), "user %d", id)
	}
}

func (s *AllocationRepositoryTestSuite) TestUserUnallocated_MatchesObjectForm() {
	user := s.createUser("alice", "11.50")
	friend := s.createUser("bob", "11.50")

	s.createOrder(user.ID, reportDate, map[int64]string{user.ID: "5.00"})
	s.createOrder(friend.ID, reportDate, map[int64]string{
		friend.ID: "1.00",
		user.ID:   "6.00",
	})
	// заказ другой даты остаток на reportDate не трогает
	s.createOrder(user.ID, reportDate.AddDate(0, 0, 1), map[int64]string{user.ID: "3.00"})

	unallocated, err := s.allocRepo.UserUnallocated(s.T().Context(), user.ID, reportDate)
	s.Require().NoError(err)
	s.Equal("0.50", unallocated.String())

	uo := s.objectForm(user)
	s.True(uo.Unallocated(reportDate).Equal(unallocated))
}

func (s *AllocationRepositoryTestSuite) TestUserUnallocated_CanGoNegative() {
	user := s.createUser("spender", "11.50")
	s.createOrder(user.ID, reportDate, map[int64]string{user.ID: "15.00"})

	unallocated, err := s.allocRepo.UserUnallocated(s.T().Context(), user.ID, reportDate)
	s.Require().NoError(err)
	s.Equal("-3.50", unallocated.String())

	uo := s.objectForm(user)
	s.True(uo.Unallocated(reportDate).Equal(unallocated))
}

func (s *AllocationRepositoryTestSuite) TestUnallocatedReport_RankingAndEquivalence() {
	// двое с равным остатком 5.20 различаются кармой: отдавший больше идет первым.
	// третий потратил больше и уходит в хвост.
	generous := s.createUser("generous", "10.00")
	stingy := s.createUser("stingy", "10.00")
	spender := s.createUser("spender", "10.00")

	// generous вносит 3.20 в заказ stingy и 1.60 в свой
	s.createOrder(stingy.ID, reportDate, map[int64]string{
		stingy.ID:   "4.80",
		generous.ID: "3.20",
	})
	s.createOrder(generous.ID, reportDate, map[int64]string{generous.ID: "1.60"})
	s.createOrder(spender.ID, reportDate, map[int64]string{spender.ID: "7.00"})

	entries, err := s.allocRepo.UnallocatedReport(s.T().Context(), repoargs.UnallocatedReportQuery{
		OrganizationID: s.orgID,
		Date:           reportDate,
	})
	s.Require().NoError(err)
	s.Require().Len(entries, 3)

	// остаток DESC, при равенстве карма ASC: stingy (-3.20) раньше generous (3.20)
	s.Equal(stingy.ID, entries[0].UserID)
	s.Equal("5.20", entries[0].Unallocated.String())
	s.Equal("-3.20", entries[0].Karma.String())

	s.Equal(generous.ID, entries[1].UserID)
	s.Equal("5.20", entries[1].Unallocated.String())
	s.Equal("3.20", entries[1].Karma.String())

	s.Equal(spender.ID, entries[2].UserID)
	s.Equal("3.00", entries[2].Unallocated.String())

	// каждая строка отчета совпадает с пересчетом объектной формой
	for _, entry := range entries {
		user, userErr := s.userRepo.FindByID(s.T().Context(), entry.UserID)
		s.Require().NoError(userErr)
		uo := s.objectForm(user)
		s.True(uo.Karma().Equal(entry.Karma), "karma of user %d", entry.UserID)
		s.True(uo.Unallocated(reportDate).Equal(entry.Unallocated), "unallocated of user %d", entry.UserID)
		s.True(uo.ParticipatedOn(reportDate), "participation of user %d", entry.UserID)
	}
}

func (s *AllocationRepositoryTestSuite) TestUnallocatedReport_NonparticipantsExcludedByDefault() {
	participant := s.createUser("participant", "10.00")
	bystander := s.createUser("bystander", "10.00")
	s.createOrder(participant.ID, reportDate, map[int64]string{participant.ID: "4.00"})

	entries, err := s.allocRepo.UnallocatedReport(s.T().Context(), repoargs.UnallocatedReportQuery{
		OrganizationID: s.orgID,
		Date:           reportDate,
	})
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(participant.ID, entries[0].UserID)

	all, err := s.allocRepo.UnallocatedReport(s.T().Context(), repoargs.UnallocatedReportQuery{
		OrganizationID:         s.orgID,
		Date:                   reportDate,
		IncludeNonparticipants: true,
	})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	// у не участвовавшего остаток равен полному лимиту
	s.Equal(bystander.ID, all[0].UserID)
	s.Equal("10.00", all[0].Unallocated.String())

	uo := s.objectForm(bystander)
	s.False(uo.ParticipatedOn(reportDate))
}

func (s *AllocationRepositoryTestSuite) TestUnallocatedReport_Empty() {
	entries, err := s.allocRepo.UnallocatedReport(s.T().Context(), repoargs.UnallocatedReportQuery{
		OrganizationID: s.orgID,
		Date:           reportDate,
	})
	s.Require().NoError(err)
	s.Empty(entries)
}

// Владелец заказа без собственного взноса участвует в дате и попадает в отчет.
func (s *AllocationRepositoryTestSuite) TestUnallocatedReport_OwnerWithoutOwnContribution() {
	owner := s.createUser("owner", "10.00")
	donor := s.createUser("donor", "10.00")
	s.createOrder(owner.ID, reportDate, map[int64]string{donor.ID: "5.75"})

	entries, err := s.allocRepo.UnallocatedReport(s.T().Context(), repoargs.UnallocatedReportQuery{
		OrganizationID: s.orgID,
		Date:           reportDate,
	})
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	for _, entry := range entries {
		if entry.UserID == owner.ID {
			s.Equal("10.00", entry.Unallocated.String())
			s.Equal("-5.75", entry.Karma.String())
		}
	}

	uo := s.objectForm(owner)
	s.True(uo.ParticipatedOn(reportDate))
	s.True(uo.Karma().Equal(currency.MustFromString("-5.75")))
}
