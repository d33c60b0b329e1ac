package service

import (
	"context"
	"time"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/fsdevblog/seamless-karma/pkg/uow"
)

// AllocationService отчетный сервис поверх запросной формы движка karma/allocation.
type AllocationService struct {
	uow       uow.UOW
	allocRepo AllocationRepository
}

func NewAllocationService(u uow.UOW) (*AllocationService, error) {
	allocRepo, err := uow.GetRepositoryAs[AllocationRepository](u, uow.RepositoryName(repoargs.AllocationRepoName))
	if err != nil {
		return nil, err
	}
	return &AllocationService{
		uow:       u,
		allocRepo: allocRepo,
	}, nil
}

// UnallocatedReport отчет по нераспределенным деньгам организации за дату.
// По умолчанию в отчет попадают только юзеры, уже участвующие в каком-либо заказе
// на эту дату: не стоит претендовать на деньги тех, кто еще не показал намерение
// заказывать. includeNonparticipants снимает фильтр.
//
// TotalUnallocated суммируется по тому же отфильтрованному набору строк, что и
// сам отчет; пустой набор дает 0.00.
func (s *AllocationService) UnallocatedReport(
	ctx context.Context,
	organizationID int64,
	date time.Time,
	includeNonparticipants bool,
) (*domain.UnallocatedReport, error) {
	entries, err := s.allocRepo.UnallocatedReport(ctx, repoargs.UnallocatedReportQuery{
		OrganizationID:         organizationID,
		Date:                   date,
		IncludeNonparticipants: includeNonparticipants,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	total := currency.Zero()
	for _, entry := range entries {
		total = total.Add(entry.Unallocated)
	}

	return &domain.UnallocatedReport{
		TotalUnallocated: total,
		Entries:          entries,
	}, nil
}

// UserUnallocated остаток лимита одного юзера на дату.
func (s *AllocationService) UserUnallocated(
	ctx context.Context,
	userID int64,
	date time.Time,
) (currency.Amount, error) {
	unallocated, err := s.allocRepo.UserUnallocated(ctx, userID, date)
	if err != nil {
		return currency.Zero(), err //nolint:wrapcheck
	}
	return unallocated, nil
}
