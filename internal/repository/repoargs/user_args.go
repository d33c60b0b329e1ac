package repoargs

import "github.com/fsdevblog/seamless-karma/pkg/currency"

type CreateUser struct {
	SeamlessID     *int64
	Username       string
	FirstName      string
	LastName       string
	Allocation     currency.Amount
	OrganizationID int64
}

type UpdateUser struct {
	SeamlessID *int64
	Username   *string
	FirstName  *string
	LastName   *string
	Allocation *currency.Amount
}
