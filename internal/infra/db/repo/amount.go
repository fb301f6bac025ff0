package repo

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("err parsing amount %q, %v", s, err)
	}
	return d, nil
}
