package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/fsdevblog/seamless-karma/pkg/uow"
)

type OrderService struct {
	uow       uow.UOW
	orderRepo OrderRepository
}

func NewOrderService(u uow.UOW) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
	}, nil
}

type ContributionArgs struct {
	UserID int64
	Amount currency.Amount
}

type CreateOrderArgs struct {
	SeamlessID    *int64
	ForDate       time.Time
	PlacedAt      time.Time
	VendorID      int64
	OrderedByID   int64
	Contributions []ContributionArgs
}

// Create создает заказ вместе со взносами в одной транзакции: либо заказ со всеми
// взносами, либо ничего. Требуется хотя бы один взнос; дубликаты юзеров в списке -
// ошибка валидации.
func (s *OrderService) Create(ctx context.Context, args CreateOrderArgs) (*domain.Order, error) {
	if err := validateContributions(args.Contributions, true); err != nil {
		return nil, err
	}

	var order *domain.Order

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		var createErr error
		order, createErr = repo.Create(c, repoargs.CreateOrder{
			SeamlessID:  args.SeamlessID,
			ForDate:     args.ForDate,
			PlacedAt:    args.PlacedAt,
			VendorID:    args.VendorID,
			OrderedByID: args.OrderedByID,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		if contribErr := s.insertContributions(c, repo, order.ID, args.Contributions); contribErr != nil {
			return contribErr
		}

		// Перечитываем заказ, чтобы вернуть его со взносами из базы.
		loaded, loadErr := repo.FindByID(c, order.ID)
		if loadErr != nil {
			return loadErr //nolint:wrapcheck
		}
		order = loaded
		return nil
	})

	if txErr != nil {
		var valErr *domain.ValidationError
		if errors.As(txErr, &valErr) {
			return nil, txErr
		}
		return nil, fmt.Errorf("creating order: %w", txErr)
	}
	return order, nil
}

type UpdateOrderArgs struct {
	SeamlessID *int64
	ForDate    *time.Time
	PlacedAt   *time.Time
	VendorID   *int64
	// Contributions nil не трогает взносы; не-nil полностью заменяет их состав.
	Contributions []ContributionArgs
}

// Update обновляет поля заказа; переданный список взносов атомарно заменяет прежний.
func (s *OrderService) Update(ctx context.Context, id int64, args UpdateOrderArgs) (*domain.Order, error) {
	if args.Contributions != nil {
		if err := validateContributions(args.Contributions, false); err != nil {
			return nil, err
		}
	}

	var order *domain.Order

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		if _, updErr := repo.Update(c, id, repoargs.UpdateOrder{
			SeamlessID: args.SeamlessID,
			ForDate:    args.ForDate,
			PlacedAt:   args.PlacedAt,
			VendorID:   args.VendorID,
		}); updErr != nil {
			return updErr //nolint:wrapcheck
		}

		if args.Contributions != nil {
			if delErr := repo.DeleteContributions(c, id); delErr != nil {
				return delErr //nolint:wrapcheck
			}
			if contribErr := s.insertContributions(c, repo, id, args.Contributions); contribErr != nil {
				return contribErr
			}
		}

		loaded, loadErr := repo.FindByID(c, id)
		if loadErr != nil {
			return loadErr //nolint:wrapcheck
		}
		order = loaded
		return nil
	})

	if txErr != nil {
		var valErr *domain.ValidationError
		if errors.As(txErr, &valErr) {
			return nil, txErr
		}
		if errors.Is(txErr, domain.ErrRecordNotFound) {
			return nil, txErr
		}
		return nil, fmt.Errorf("updating order %d: %w", id, txErr)
	}
	return order, nil
}

func (s *OrderService) insertContributions(
	ctx context.Context,
	repo OrderRepository,
	orderID int64,
	contributions []ContributionArgs,
) error {
	repoContributions := make([]repoargs.ContributionCreate, len(contributions))
	for i, c := range contributions {
		repoContributions[i] = repoargs.ContributionCreate{
			UserID: c.UserID,
			Amount: c.Amount,
		}
	}

	var batchErr error
	repo.BatchCreateContributions(ctx, orderID, repoContributions, func(i int, err error) {
		if err == nil || batchErr != nil {
			return
		}
		if errors.Is(err, domain.ErrForeignKeyViolation) {
			batchErr = domain.NewValidationError("order", "contributions",
				fmt.Sprintf("contributor %d does not exist", contributions[i].UserID))
			return
		}
		batchErr = err
	})
	return batchErr
}

// validateContributions дубликат юзера в списке невозможен в базе (составной ключ),
// но отдаем осмысленную ошибку валидации еще до транзакции.
func validateContributions(contributions []ContributionArgs, required bool) error {
	if required && len(contributions) == 0 {
		return domain.NewValidationError("order", "contributions", "at least one contribution is required")
	}
	seen := make(map[int64]struct{}, len(contributions))
	for _, c := range contributions {
		if _, ok := seen[c.UserID]; ok {
			return domain.NewValidationError("order", "contributions",
				fmt.Sprintf("duplicate contributor %d", c.UserID))
		}
		seen[c.UserID] = struct{}{}
	}
	return nil
}

// GetByID возвращает заказ со взносами.
func (s *OrderService) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orderRepo.All(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// GetByUserID заказы, в которых юзер участвует (собственные и с его взносом),
// свежие даты первыми.
func (s *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := s.orderRepo.GetParticipated(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// GetByOrganization заказы юзеров организации, date nil - за все даты.
func (s *OrderService) GetByOrganization(
	ctx context.Context,
	organizationID int64,
	date *time.Time,
) ([]domain.Order, error) {
	orders, err := s.orderRepo.GetByOrganization(ctx, repoargs.OrdersByOrganization{
		OrganizationID: organizationID,
		Date:           date,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// Delete удаляет заказ вместе со всеми его взносами.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	return s.orderRepo.Delete(ctx, id) //nolint:wrapcheck
}
