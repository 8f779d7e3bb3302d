package promotions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/config"
)

func newTestValidator() *Validator {
	return NewValidator(config.PromotionsConfig{Codes: []config.PromoCodeConfig{
		{Code: "WELCOME10", Percent: 10},
		{Code: "spring25", Amount: 25, ExpiresAt: "2026-06-01"},
	}}, time.UTC)
}

func TestValidate(t *testing.T) {
	v := newTestValidator()
	now := time.Date(2026, 5, 31, 23, 0, 0, 0, time.UTC)

	d, err := v.Validate(" welcome10 ", now)
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", d.Code)
	assert.InDelta(t, 180.0, d.Apply(200), 0.001)

	d, err = v.Validate("SPRING25", now)
	require.NoError(t, err)
	assert.InDelta(t, 175.0, d.Apply(200), 0.001)

	_, err = v.Validate("SPRING25", now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrExpiredCode)

	_, err = v.Validate("FREE", now)
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestDiscount_ApplyNeverNegative(t *testing.T) {
	d := &Discount{Amount: 500}
	assert.Equal(t, 0.0, d.Apply(120))

	var none *Discount
	assert.Equal(t, 120.0, none.Apply(120))
}
