package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentsFromDecimal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "whole amount", in: "20", want: 2000},
		{name: "two decimal places", in: "20.50", want: 2050},
		{name: "one decimal place", in: "0.5", want: 50},
		{name: "zero", in: "0", want: 0},
		{name: "negative passes through", in: "-1.25", want: -125},
		{name: "three decimal places rejected", in: "1.005", wantErr: true},
		{name: "overflows int64 cents", in: "92233720368547758.08", wantErr: true},
		{name: "astronomical amount rejected", in: "1e30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.in)
			require.NoError(t, err)

			got, err := CentsFromDecimal(d)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecimalFromCents(t *testing.T) {
	assert.Equal(t, "30", DecimalFromCents(3000).String())
	assert.Equal(t, "20.5", DecimalFromCents(2050).String())
	assert.Equal(t, "0", DecimalFromCents(0).String())
}
