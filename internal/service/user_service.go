package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/currency"
	"github.com/fsdevblog/seamless-karma/pkg/uow"
)

type UserService struct {
	uow       uow.UOW
	userRepo  UserRepository
	allocRepo AllocationRepository
}

func NewUserService(u uow.UOW) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	allocRepo, allocRepoErr := uow.GetRepositoryAs[AllocationRepository](
		u, uow.RepositoryName(repoargs.AllocationRepoName))
	if allocRepoErr != nil {
		return nil, allocRepoErr
	}
	return &UserService{
		uow:       u,
		userRepo:  userRepo,
		allocRepo: allocRepo,
	}, nil
}

// CreateUserArgs организация указывается либо по ID, либо по имени (ровно одно из двух).
type CreateUserArgs struct {
	SeamlessID       *int64
	Username         string
	FirstName        string
	LastName         string
	Allocation       *currency.Amount
	OrganizationID   *int64
	OrganizationName string
}

// Create создает юзера в одной транзакции с разрешением организации.
//
// Правила разрешения:
//   - организация по ID: должна существовать, иначе ошибка валидации;
//   - организация по имени: если не найдена и allocation передан, организация
//     создается на лету с этим allocation как default_allocation; без allocation -
//     ошибка валидации, молчаливого создания не происходит;
//   - allocation юзера: явное значение, иначе default_allocation организации;
//     если недоступно ни то ни другое - ошибка валидации.
//
// Любая ошибка откатывает и юзера, и динамически созданную организацию.
func (s *UserService) Create(ctx context.Context, args CreateUserArgs) (*domain.User, error) {
	var user *domain.User

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		org, orgErr := s.resolveOrganization(c, tx, args)
		if orgErr != nil {
			return orgErr
		}

		allocation := args.Allocation
		if allocation == nil {
			allocation = org.DefaultAllocation
		}
		if allocation == nil {
			return domain.ErrAllocationUnresolvable
		}

		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		var createErr error
		user, createErr = userRepo.Create(c, repoargs.CreateUser{
			SeamlessID:     args.SeamlessID,
			Username:       args.Username,
			FirstName:      args.FirstName,
			LastName:       args.LastName,
			Allocation:     *allocation,
			OrganizationID: org.ID,
		})
		return createErr //nolint:wrapcheck
	})

	if txErr != nil {
		var valErr *domain.ValidationError
		if errors.As(txErr, &valErr) {
			return nil, txErr
		}
		return nil, fmt.Errorf("creating user: %w", txErr)
	}
	return user, nil
}

func (s *UserService) resolveOrganization(
	ctx context.Context,
	tx uow.TX,
	args CreateUserArgs,
) (*domain.Organization, error) {
	orgRepo, orgRepoErr := uow.GetAs[OrganizationRepository](tx, uow.RepositoryName(repoargs.OrganizationRepoName))
	if orgRepoErr != nil {
		return nil, orgRepoErr //nolint:wrapcheck
	}

	if args.OrganizationID != nil {
		org, err := orgRepo.FindByID(ctx, *args.OrganizationID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return nil, domain.NewValidationError("user", "organization", "invalid organization ID")
			}
			return nil, err //nolint:wrapcheck
		}
		return org, nil
	}

	org, err := orgRepo.FindByName(ctx, args.OrganizationName)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, err //nolint:wrapcheck
	}

	// Организации с таким именем нет. Создаем динамически, но только если есть
	// allocation, который станет дефолтом новой организации.
	if args.Allocation == nil {
		return nil, domain.ErrOrganizationNotCreatable
	}
	org, createErr := orgRepo.Create(ctx, repoargs.CreateOrganization{
		Name:              args.OrganizationName,
		DefaultAllocation: args.Allocation,
	})
	if createErr != nil {
		return nil, createErr //nolint:wrapcheck
	}
	return org, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.All(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, id int64, args repoargs.UpdateUser) (*domain.User, error) {
	user, err := s.userRepo.Update(ctx, id, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id) //nolint:wrapcheck
}

// Karma карма юзера, посчитанная запросной формой движка. Юзер без заказов
// имеет карму ровно 0.00.
func (s *UserService) Karma(ctx context.Context, userID int64) (currency.Amount, error) {
	karma, err := s.allocRepo.UserKarma(ctx, userID)
	if err != nil {
		return currency.Zero(), err //nolint:wrapcheck
	}
	return karma, nil
}

// Karmas карма набора юзеров одним запросом к базе. У юзера без взносов в мапе
// лежит 0.00, пустой набор дает пустую мапу.
func (s *UserService) Karmas(ctx context.Context, userIDs []int64) (map[int64]currency.Amount, error) {
	if len(userIDs) == 0 {
		return map[int64]currency.Amount{}, nil
	}
	karmas, err := s.allocRepo.UsersKarma(ctx, userIDs)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return karmas, nil
}
