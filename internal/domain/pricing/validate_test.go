package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateChargeAmount(t *testing.T) {
	assert.NoError(t, ValidateChargeAmount(45.00, 4500, 1))
	assert.NoError(t, ValidateChargeAmount(45.00, 2250, 2))

	assert.Error(t, ValidateChargeAmount(45.00, 4501, 1))
	assert.Error(t, ValidateChargeAmount(45.00, 4499, 1))
	assert.Error(t, ValidateChargeAmount(45.00, 0, 1))
	assert.Error(t, ValidateChargeAmount(45.00, 4500, 0))
	assert.Error(t, ValidateChargeAmount(45.00, -4500, -1))
}

func TestTotalCents(t *testing.T) {
	pc := PricingConfig{TotalPriceEUR: 45.00}
	assert.Equal(t, int64(4500), pc.TotalCents())

	pc.TotalPriceEUR = 99.99
	assert.Equal(t, int64(9999), pc.TotalCents())

	pc.TotalPriceEUR = 0.01
	assert.Equal(t, int64(1), pc.TotalCents())
}
