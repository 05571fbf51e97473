package quality

import (
	"errors"
	"math"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
)

// ValidateRecord checks one request and converts it into a RateRecord.
// A bad date yields the *contracts.FormatError from ParseDate; any other
// problem yields a *contracts.ValidationError naming the field.
func ValidateRecord(req contracts.IngestRequest) (contracts.RateRecord, error) {
	if req.DateText == "" {
		return contracts.RateRecord{}, &contracts.ValidationError{Index: -1, Field: "data", Reason: "required"}
	}

	date, err := ParseDate(req.DateText)
	if err != nil {
		return contracts.RateRecord{}, err
	}

	if !req.Value.IsSet() {
		return contracts.RateRecord{}, &contracts.ValidationError{Index: -1, Field: "valor", Reason: "required"}
	}

	value, err := req.Value.Float()
	if err != nil {
		return contracts.RateRecord{}, &contracts.ValidationError{
			Index:  -1,
			Field:  "valor",
			Reason: "not a number: " + req.Value.Text(),
		}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return contracts.RateRecord{}, &contracts.ValidationError{Index: -1, Field: "valor", Reason: "must be finite"}
	}

	return contracts.RateRecord{Date: date, Value: value}, nil
}

// ValidateBatch validates every request before anything is written.
// The first failure is returned as a *contracts.ValidationError carrying its
// index; a FormatError stays reachable through errors.As.
func ValidateBatch(reqs []contracts.IngestRequest) ([]contracts.RateRecord, error) {
	records := make([]contracts.RateRecord, 0, len(reqs))

	for i, req := range reqs {
		rec, err := ValidateRecord(req)
		if err != nil {
			return nil, withIndex(err, i)
		}
		records = append(records, rec)
	}

	return records, nil
}

func withIndex(err error, index int) error {
	var vErr *contracts.ValidationError
	if errors.As(err, &vErr) {
		indexed := *vErr
		indexed.Index = index
		return &indexed
	}

	var fErr *contracts.FormatError
	if errors.As(err, &fErr) {
		return &contracts.ValidationError{Index: index, Field: "data", Err: fErr}
	}

	return &contracts.ValidationError{Index: index, Field: "record", Err: err}
}
