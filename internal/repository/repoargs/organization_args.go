package repoargs

import "github.com/fsdevblog/seamless-karma/pkg/currency"

type CreateOrganization struct {
	SeamlessID        *int64
	Name              string
	DefaultAllocation *currency.Amount
}

// UpdateOrganization nil-поля не трогаются при обновлении.
type UpdateOrganization struct {
	SeamlessID        *int64
	Name              *string
	DefaultAllocation *currency.Amount
}
