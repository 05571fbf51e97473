package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Date layouts used across the service
const (
	// KeyLayout is the canonical, sortable date key (YYYY-MM-DD)
	KeyLayout = "2006-01-02"
	// DisplayLayout is the day/month/year form used on the wire (DD/MM/YYYY)
	DisplayLayout = "02/01/2006"
)

// RateRecord is one stored observation of the Selic series.
// ⭐ SSOT: at most one RateRecord exists per Date
type RateRecord struct {
	Date       time.Time // civil date, UTC midnight
	Value      float64
	IngestedAt time.Time // time of the last write for Date
}

// Key returns the canonical date key
func (r RateRecord) Key() string {
	return r.Date.Format(KeyLayout)
}

// DisplayDate returns the date as DD/MM/YYYY
func (r RateRecord) DisplayDate() string {
	return r.Date.Format(DisplayLayout)
}

// View projects the record for retrieval
func (r RateRecord) View() StoredRate {
	return StoredRate{
		DateText:   r.DisplayDate(),
		Value:      r.Value,
		IngestedAt: r.IngestedAt,
	}
}

// StoredRate is the retrieval projection of a RateRecord
type StoredRate struct {
	DateText   string    `json:"data"`
	Value      float64   `json:"valor"`
	IngestedAt time.Time `json:"ingested_at"`
}

// IngestRequest is one externally supplied data point, from a client or the upstream feed.
// It is validated, turned into a RateRecord and discarded.
type IngestRequest struct {
	DateText string    `json:"data"`
	Value    RateValue `json:"valor"`
}

// TargetRateSnapshot is the latest official target rate. Never persisted.
type TargetRateSnapshot struct {
	DateText string  `json:"data"`
	Value    float64 `json:"valor"`
}

// BatchMode selects the commit boundary of an ingestion batch
type BatchMode string

const (
	// BatchModeRow commits each record on its own; a failure keeps earlier rows
	BatchModeRow BatchMode = "row"
	// BatchModeAtomic commits the whole batch in one transaction
	BatchModeAtomic BatchMode = "atomic"
)

// ParseBatchMode maps a configuration value to a BatchMode
func ParseBatchMode(s string) (BatchMode, error) {
	switch BatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", BatchModeRow:
		return BatchModeRow, nil
	case BatchModeAtomic:
		return BatchModeAtomic, nil
	default:
		return "", fmt.Errorf("unknown batch mode %q", s)
	}
}

// IngestResult summarizes one applied batch
type IngestResult struct {
	BatchID       string    `json:"batch_id"`
	Mode          BatchMode `json:"mode"`
	RowsProcessed int       `json:"rows_processed"`
}

// RateValue is a numeric rate that may arrive as a JSON number or as a
// string-encoded number ("0.043739"). The text is kept as received and
// parsed by the validator.
type RateValue struct {
	text string
	set  bool
}

// NewRateValue builds a RateValue from a float
func NewRateValue(v float64) RateValue {
	return RateValue{text: strconv.FormatFloat(v, 'f', -1, 64), set: true}
}

// RateValueText builds a RateValue from raw text, as the upstream sends it
func RateValueText(s string) RateValue {
	return RateValue{text: s, set: true}
}

// IsSet reports whether a non-null value was supplied
func (v RateValue) IsSet() bool {
	return v.set
}

// Text returns the value as received
func (v RateValue) Text() string {
	return v.text
}

// Float parses the value
func (v RateValue) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(v.text), 64)
}

// UnmarshalJSON accepts a number, a string or null
func (v *RateValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*v = RateValue{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = RateValue{text: s, set: true}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("valor must be a number or a numeric string: %w", err)
		}
		*v = RateValue{text: n.String(), set: true}
		return nil
	}
}

// MarshalJSON writes the value as a JSON number when it parses, a string otherwise
func (v RateValue) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	if f, err := v.Float(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return json.Marshal(f)
	}
	return json.Marshal(v.text)
}
