package quality

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "end of year", input: "31/12/2023", want: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		{name: "zero padded", input: "05/01/2024", want: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{name: "unpadded", input: "5/1/2024", want: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{name: "leap day", input: "29/02/2024", want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "first SGS observation", input: "04/06/1986", want: time.Date(1986, 6, 4, 0, 0, 0, 0, time.UTC)},

		{name: "invalid month", input: "31/13/2024", wantErr: true},
		{name: "month zero", input: "01/00/2024", wantErr: true},
		{name: "day zero", input: "00/01/2024", wantErr: true},
		{name: "non leap year", input: "29/02/2023", wantErr: true},
		{name: "april 31", input: "31/04/2024", wantErr: true},
		{name: "iso form", input: "2024-01-05", wantErr: true},
		{name: "two components", input: "05/2024", wantErr: true},
		{name: "four components", input: "05/01/2024/1", wantErr: true},
		{name: "two digit year", input: "05/01/24", wantErr: true},
		{name: "signed day", input: "+5/01/2024", wantErr: true},
		{name: "letters", input: "aa/01/2024", wantErr: true},
		{name: "spaces", input: " 05/01/2024", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				var fErr *contracts.FormatError
				require.True(t, errors.As(err, &fErr), "expected FormatError, got %v", err)
				assert.Equal(t, tt.input, fErr.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("31/12/2023")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", got)

	_, err = NormalizeDate("31/13/2024")
	assert.Error(t, err)
}

func TestDisplayDate_RoundTrip(t *testing.T) {
	inputs := []string{"05/01/2024", "31/12/2023", "01/01/2024", "29/02/2024", "04/06/1986"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			parsed, err := ParseDate(in)
			require.NoError(t, err)
			assert.Equal(t, in, DisplayDate(parsed))
		})
	}
}

func TestNormalizedKeysSortChronologically(t *testing.T) {
	a, _ := NormalizeDate("31/12/2023")
	b, _ := NormalizeDate("01/01/2024")
	c, _ := NormalizeDate("15/02/2024")

	assert.True(t, a < b)
	assert.True(t, b < c)
}
