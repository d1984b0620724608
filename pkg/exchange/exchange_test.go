package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	testCases := []struct {
		name    string
		amount  string
		want    int64
		wantErr bool
	}{
		{"Whole tokens", "20", 20_000_000, false},
		{"Fractional", "19.5", 19_500_000, false},
		{"Exact minor unit", "0.000001", 1, false},
		{"Truncates dust below minor unit", "0.0000019", 1, false},
		{"Zero", "0", 0, false},
		{"Garbage", "twenty", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToMinorUnits(tc.amount, 6)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromMinorUnits(t *testing.T) {
	assert.Equal(t, "20", FromMinorUnits(20_000_000, 6))
	assert.Equal(t, "19.5", FromMinorUnits(19_500_000, 6))
	assert.Equal(t, "0.000001", FromMinorUnits(1, 6))
	assert.Equal(t, "0", FromMinorUnits(0, 6))
}

// Converting out and back in again must never change a minor-unit amount.
func TestMinorUnitsRoundTrip(t *testing.T) {
	for _, amount := range []int64{1, 999_999, 1_000_000, 19_000_000, 123_456_789} {
		got, err := ToMinorUnits(FromMinorUnits(amount, 6), 6)
		assert.NoError(t, err)
		assert.Equal(t, amount, got)
	}
}
