package internal

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

type Decimal struct {
	value apd.Decimal
}

// NewDecimalFromFloat64 converts f through its shortest round-tripping
// decimal representation. NaN and infinities convert to their decimal forms.
func NewDecimalFromFloat64(f float64) (Decimal, error) {
	var d apd.Decimal
	if _, err := d.SetFloat64(f); err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal: %w", err)
	}
	return Decimal{value: d}, nil
}

func NewDecimalFromInt64(i int64) Decimal {
	var d apd.Decimal
	d.SetInt64(i)
	return Decimal{value: d}
}

func (d Decimal) String() string {
	return d.value.String()
}

// Float64 returns the nearest float64.
func (d Decimal) Float64() float64 {
	f, _ := d.value.Float64()
	return f
}

// Add returns the sum of d and other.
func (d Decimal) Add(other Decimal) Decimal {
	var result apd.Decimal
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Add(&result, &d.value, &other.value)
	return Decimal{value: result}
}

// Sub returns d minus other.
func (d Decimal) Sub(other Decimal) Decimal {
	var result apd.Decimal
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Sub(&result, &d.value, &other.value)
	return Decimal{value: result}
}
