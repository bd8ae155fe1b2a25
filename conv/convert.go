package conv

import (
	"math/bits"

	"github.com/pkg/errors"
)

// MaxPrecision is the largest number of decimals an amount may carry
const MaxPrecision = 19

// ErrInvalidAmount is returned for malformed decimal strings
var ErrInvalidAmount = errors.New("invalid amount")

// ErrAmountOverflow is returned when the amount does not fit in uint64 base units
var ErrAmountOverflow = errors.New("amount overflows base units")

// ToUnits converts a decimal string into base units with the given precision.
// Digits beyond the precision are truncated.
func ToUnits(amount string, precision uint8) (uint64, error) {
	if precision > MaxPrecision {
		return 0, errors.Wrapf(ErrInvalidAmount, "precision %d above %d", precision, MaxPrecision)
	}
	bytes := []byte(amount)
	size := len(bytes)
	if size == 0 {
		return 0, errors.Wrap(ErrInvalidAmount, "empty amount")
	}

	var dec uint64
	digits := 0
	decimals := 0
	start := false
	for i := 0; i < size; i++ {
		switch {
		case bytes[i] == '.' && !start:
			start = true
		case bytes[i] >= '0' && bytes[i] <= '9':
			digits++
			if start {
				if decimals == int(precision) {
					continue
				}
				decimals++
			}
			var err error
			if dec, err = mulAdd(dec, 10, uint64(bytes[i]-48)); err != nil { // ascii char for 0
				return 0, err
			}
		default:
			return 0, errors.Wrapf(ErrInvalidAmount, "unexpected %q in %q", bytes[i], amount)
		}
	}
	if digits == 0 {
		return 0, errors.Wrapf(ErrInvalidAmount, "no digits in %q", amount)
	}
	for ; decimals < int(precision); decimals++ {
		var err error
		if dec, err = mulAdd(dec, 10, 0); err != nil {
			return 0, err
		}
	}
	return dec, nil
}

func mulAdd(a, b, c uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrAmountOverflow
	}
	sum, carry := bits.Add64(lo, c, 0)
	if carry != 0 {
		return 0, ErrAmountOverflow
	}
	return sum, nil
}

// FromUnits renders base units as a decimal string with the given precision
func FromUnits(number uint64, precision uint8) string {
	if precision > MaxPrecision {
		precision = MaxPrecision
	}
	bytes := []byte{48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48, 48}
	i := 0
	for (number != 0 || i < int(precision)) && i <= 28 {
		add := uint8(number % 10)
		number /= 10
		bytes[28-i] = 48 + add
		if i == int(precision)-1 {
			i++
			bytes[28-i] = 46 // . char
		}
		i++
	}
	if i == 0 {
		return "0"
	}
	i--
	if bytes[28-i] == 46 {
		return string(bytes[28-i-1:])
	}

	return string(bytes[28-i:])
}
