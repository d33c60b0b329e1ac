package repoargs

import "github.com/shopspring/decimal"

type CreateVendor struct {
	SeamlessID *int64
	Name       string
	Latitude   *decimal.Decimal
	Longitude  *decimal.Decimal
}

type UpdateVendor struct {
	SeamlessID *int64
	Name       *string
	Latitude   *decimal.Decimal
	Longitude  *decimal.Decimal
}
