package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

// pageOptions applies the deployment settings to client options. Only the cap
// is enforced here; negative values are left to the paginator's rules.
func pageOptions(opts paginate.Options, s PageSettings) (paginate.Options, error) {
	opts.Strict = opts.Strict || s.Strict
	if s.MaxLimit > 0 && opts.Limit > s.MaxLimit {
		return opts, newInvalidInput([]FieldError{{
			Field:   paginate.KeyLimit,
			Message: fmt.Sprintf("must be <= %d", s.MaxLimit),
		}})
	}
	return opts, nil
}

func validateName(field, v string, min, max int) []FieldError {
	if v == "" {
		return []FieldError{{Field: field, Message: "must not be empty"}}
	}
	if ln := len([]rune(v)); ln < min || ln > max {
		return []FieldError{{Field: field, Message: fmt.Sprintf("length must be between %d and %d", min, max)}}
	}
	return nil
}

var maxPrice = decimal.New(1, 8) // numeric(10,2)

func validatePrice(p decimal.Decimal) []FieldError {
	switch {
	case p.IsNegative():
		return []FieldError{{Field: "price", Message: "must be >= 0"}}
	case p.GreaterThanOrEqual(maxPrice):
		return []FieldError{{Field: "price", Message: "must be < 100000000"}}
	case p.Exponent() < -2 && !p.Equal(p.Round(2)):
		return []FieldError{{Field: "price", Message: "must have at most 2 decimal places"}}
	}
	return nil
}

func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
