package storage

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Amounts are persisted as BSON Decimal128 so that server-side aggregation
// ($sum during full recompute) stays exact. Never float64.

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	d128, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert %s to Decimal128: %w", d.String(), err)
	}
	return d128, nil
}

func fromDecimal128(d128 primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(d128.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to convert Decimal128 %s: %w", d128.String(), err)
	}
	return d, nil
}
