package token

import (
	"testing"

	"github.com/iov-one/loom/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	cases := map[string]struct {
		amount   uint64
		decimals uint8
		want     string
	}{
		"no decimals":        {amount: 42, decimals: 0, want: "42"},
		"fraction":           {amount: 1500, decimals: 3, want: "1.5"},
		"smaller than one":   {amount: 5, decimals: 6, want: "0.000005"},
		"zero":               {amount: 0, decimals: 9, want: "0"},
		"largest value":      {amount: 18446744073709551615, decimals: 18, want: "18.446744073709551615"},
		"trailing zeros cut": {amount: 100000000, decimals: 6, want: "100"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatAmount(tc.amount, tc.decimals))
		})
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		input    string
		decimals uint8
		want     uint64
		wantErr  *errors.Error
	}{
		"integer":              {input: "42", decimals: 2, want: 4200},
		"fraction":             {input: "1.5", decimals: 3, want: 1500},
		"full precision":       {input: "0.000005", decimals: 6, want: 5},
		"trailing zeros":       {input: "2.500", decimals: 1, want: 25},
		"too precise":          {input: "0.0000005", decimals: 6, wantErr: errors.ErrPrecision},
		"negative":             {input: "-1", decimals: 0, wantErr: errors.ErrAmount},
		"not a number":         {input: "ten", decimals: 0, wantErr: errors.ErrInput},
		"overflow":             {input: "18446744073709551616", decimals: 0, wantErr: errors.ErrOverflow},
		"overflow by decimals": {input: "19", decimals: 18, wantErr: errors.ErrOverflow},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAmount(tc.input, tc.decimals)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
