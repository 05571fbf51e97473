package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateRecord_Projection(t *testing.T) {
	ingested := time.Date(2024, 1, 5, 12, 30, 0, 0, time.UTC)
	rec := RateRecord{
		Date:       time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Value:      11.75,
		IngestedAt: ingested,
	}

	assert.Equal(t, "2024-01-05", rec.Key())
	assert.Equal(t, "05/01/2024", rec.DisplayDate())

	data, err := json.Marshal(rec.View())
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":"05/01/2024","valor":11.75,"ingested_at":"2024-01-05T12:30:00Z"}`, string(data))
}

func TestRateValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantSet bool
		want    float64
		wantErr bool
	}{
		{name: "number", input: `{"valor": 11.75}`, wantSet: true, want: 11.75},
		{name: "numeric string", input: `{"valor": "0.043739"}`, wantSet: true, want: 0.043739},
		{name: "negative", input: `{"valor": -0.5}`, wantSet: true, want: -0.5},
		{name: "zero", input: `{"valor": 0}`, wantSet: true, want: 0},
		{name: "null", input: `{"valor": null}`, wantSet: false},
		{name: "absent", input: `{}`, wantSet: false},
		{name: "bool", input: `{"valor": true}`, wantErr: true},
		{name: "object", input: `{"valor": {"x": 1}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req IngestRequest
			err := json.Unmarshal([]byte(tt.input), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSet, req.Value.IsSet())

			if tt.wantSet {
				got, err := req.Value.Float()
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRateValue_NonNumericStringIsKept(t *testing.T) {
	var req IngestRequest
	require.NoError(t, json.Unmarshal([]byte(`{"data":"01/01/2024","valor":"n/a"}`), &req))

	assert.True(t, req.Value.IsSet())
	assert.Equal(t, "n/a", req.Value.Text())
	_, err := req.Value.Float()
	assert.Error(t, err)
}

func TestRateValue_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(IngestRequest{DateText: "31/12/2023", Value: RateValueText("12.00")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":"31/12/2023","valor":12}`, string(data))

	data, err = json.Marshal(IngestRequest{DateText: "31/12/2023"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":"31/12/2023","valor":null}`, string(data))

	data, err = json.Marshal(NewRateValue(11.75))
	require.NoError(t, err)
	assert.Equal(t, "11.75", string(data))
}

func TestParseBatchMode(t *testing.T) {
	tests := []struct {
		in      string
		want    BatchMode
		wantErr bool
	}{
		{"", BatchModeRow, false},
		{"row", BatchModeRow, false},
		{" ATOMIC ", BatchModeAtomic, false},
		{"nightly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBatchMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeriesWindow_IsZero(t *testing.T) {
	assert.True(t, SeriesWindow{}.IsZero())
	assert.False(t, SeriesWindow{From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}.IsZero())
}
