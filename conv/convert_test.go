package conv_test

import (
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"gitlab.com/paramountdax-exchange/distribution_api/conv"
)

func BenchmarkConvertToUnits(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = conv.ToUnits("101000101.33232313", 8)
	}
}

func BenchmarkConvertFromUnits(b *testing.B) {
	for i := 0; i < b.N; i++ {
		conv.FromUnits(10100010133232313, 8)
	}
}

func mustUnits(amount string, precision uint8) uint64 {
	units, err := conv.ToUnits(amount, precision)
	So(err, ShouldBeNil)
	return units
}

func TestConvertToUnits(t *testing.T) {
	Convey("Given a string representation of a decimal amount", t, func() {
		Convey("I should be able to convert it into base units with a fixed precision", func() {
			So(mustUnits("0.0", 8), ShouldEqual, 0)
			So(mustUnits("1", 8), ShouldEqual, 100000000)
			So(mustUnits("1.", 8), ShouldEqual, 100000000)
			So(mustUnits(".5", 9), ShouldEqual, 500000000)
			So(mustUnits("9996369.12", 8), ShouldEqual, 999636912000000)
			So(mustUnits("0.00000001", 8), ShouldEqual, 1)
			So(mustUnits("12785431320.23424178", 8), ShouldEqual, 1278543132023424178)
			So(mustUnits("12785431320.234241781222", 8), ShouldEqual, 1278543132023424178)
			So(mustUnits("2400", 0), ShouldEqual, 2400)
			So(mustUnits("18446744073709551615", 0), ShouldEqual, uint64(18446744073709551615))
		})

		Convey("malformed amounts should be rejected", func() {
			for _, amount := range []string{"", ".", "1.2.3", "-1", "1e9", "12a"} {
				_, err := conv.ToUnits(amount, 8)
				So(errors.Is(err, conv.ErrInvalidAmount), ShouldBeTrue)
			}
		})
	})
}

func TestConvertFromUnits(t *testing.T) {
	Convey("Given a unit representation of an amount with a given precision", t, func() {
		Convey("I should be able to convert it into a decimal string", func() {
			So(conv.FromUnits(0, 8), ShouldEqual, "0.00000000")
			So(conv.FromUnits(0, 0), ShouldEqual, "0")
			So(conv.FromUnits(2400, 0), ShouldEqual, "2400")
			So(conv.FromUnits(100000000, 8), ShouldEqual, "1.00000000")
			So(conv.FromUnits(1, 8), ShouldEqual, "0.00000001")
			So(conv.FromUnits(1278543132023424178, 8), ShouldEqual, "12785431320.23424178")
			So(conv.FromUnits(934000000000, 8), ShouldEqual, "9340.00000000")
			// max uint value
			So(conv.FromUnits(18446744073709551615, 8), ShouldEqual, "184467440737.09551615")
		})
	})
}

func TestConvertToUnitsOverflow(t *testing.T) {
	units, err := conv.ToUnits("33000.000000000000000000", 14)
	assert.Equal(t, err, nil)
	assert.Equal(t, units, uint64(3300000000000000000))
	// above 14 decimals the amount no longer fits in uint64
	_, err = conv.ToUnits("33000.000000000000000000", 15)
	assert.Equal(t, errors.Is(err, conv.ErrAmountOverflow), true)
	_, err = conv.ToUnits("18446744073709551616", 0)
	assert.Equal(t, errors.Is(err, conv.ErrAmountOverflow), true)
}
