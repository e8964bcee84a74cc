package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVATRateValid(t *testing.T) {
	assert.True(t, VAT6.Valid())
	assert.True(t, VAT12.Valid())
	assert.True(t, VAT21.Valid())
	assert.False(t, VATRate(0).Valid())
	assert.False(t, VATRate(19).Valid())
}

func TestExtractFromGross(t *testing.T) {
	cases := []struct {
		rate  VATRate
		gross int64
		vat   int64
	}{
		{VAT21, 12100, 2100}, // 121.00 gross contains exactly 21.00
		{VAT21, 2000, 347},   // 20.00 gross, 3.4711 rounds to 3.47
		{VAT12, 1120, 120},
		{VAT6, 1060, 60},
		{VAT6, 325, 18},
		{VAT21, 0, 0},
		{VAT21, 1, 0}, // one cent holds no whole cent of VAT
	}

	for _, tc := range cases {
		assert.Equal(t, tc.vat, tc.rate.ExtractFromGross(tc.gross),
			"rate %d gross %d", tc.rate, tc.gross)
	}
}

func TestExtractFromGrossRoundsHalfUp(t *testing.T) {
	// 6% share of 53 gross is exactly 3.0
	assert.Equal(t, int64(3), VAT6.ExtractFromGross(53))
}
