package service

import (
	"context"

	"github.com/fsdevblog/seamless-karma/internal/domain"
	"github.com/fsdevblog/seamless-karma/internal/repository/repoargs"
	"github.com/fsdevblog/seamless-karma/pkg/uow"
)

type OrganizationService struct {
	uow     uow.UOW
	orgRepo OrganizationRepository
}

func NewOrganizationService(u uow.UOW) (*OrganizationService, error) {
	orgRepo, err := uow.GetRepositoryAs[OrganizationRepository](u, uow.RepositoryName(repoargs.OrganizationRepoName))
	if err != nil {
		return nil, err
	}
	return &OrganizationService{
		uow:     u,
		orgRepo: orgRepo,
	}, nil
}

// Create создает организацию. При занятом имени вернется ошибка domain.ErrDuplicateKey
// и никакая строка не останется.
func (s *OrganizationService) Create(
	ctx context.Context,
	args repoargs.CreateOrganization,
) (*domain.Organization, error) {
	org, err := s.orgRepo.Create(ctx, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return org, nil
}

func (s *OrganizationService) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return org, nil
}

func (s *OrganizationService) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	org, err := s.orgRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return org, nil
}

func (s *OrganizationService) List(ctx context.Context) ([]domain.Organization, error) {
	orgs, err := s.orgRepo.All(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orgs, nil
}

func (s *OrganizationService) Update(
	ctx context.Context,
	id int64,
	args repoargs.UpdateOrganization,
) (*domain.Organization, error) {
	org, err := s.orgRepo.Update(ctx, id, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return org, nil
}

// Delete удаляет организацию. Каскадного удаления юзеров нет: организация с юзерами
// защищена внешним ключом и вернет domain.ErrForeignKeyViolation.
func (s *OrganizationService) Delete(ctx context.Context, id int64) error {
	return s.orgRepo.Delete(ctx, id) //nolint:wrapcheck
}
