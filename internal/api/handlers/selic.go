package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
	"github.com/venysssssssssss/data-intake-selic-bc/internal/s0_data/quality"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/logger"
)

// SelicService is what the Selic endpoints need from the ingestion layer
type SelicService interface {
	Ingest(ctx context.Context, reqs []contracts.IngestRequest) (*contracts.IngestResult, error)
	Sync(ctx context.Context, window contracts.SeriesWindow) (*contracts.IngestResult, error)
	Records(ctx context.Context) ([]contracts.StoredRate, error)
	TargetRate(ctx context.Context) (*contracts.TargetRateSnapshot, error)
}

// SelicHandler serves ingestion, retrieval and target-rate endpoints
// ⭐ SSOT: Selic API handlers live in this struct only
type SelicHandler struct {
	service      SelicService
	maxBodyBytes int64
	logger       *logger.Logger
}

// NewSelicHandler creates a new Selic handler.
// maxBodyBytes <= 0 leaves request bodies unbounded.
func NewSelicHandler(service SelicService, maxBodyBytes int64, log *logger.Logger) *SelicHandler {
	return &SelicHandler{
		service:      service,
		maxBodyBytes: maxBodyBytes,
		logger:       log.Module("selic_handler"),
	}
}

// Ingest stores a client-supplied batch
// POST /v1/ingest
func (h *SelicHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	reqs, err := decodeBatch(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, CategoryBadRequest, "Request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, CategoryBadRequest, "Invalid request body: expected a JSON array of {data, valor}")
		return
	}

	h.logger.WithField("items", len(reqs)).Info("Received manual ingestion request")

	result, err := h.service.Ingest(r.Context(), reqs)
	if err != nil {
		h.logger.WithError(err).Error("Ingestion failed")
		respondFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newIngestResponse("Data ingested successfully", result))
}

// FetchBCB pulls the upstream series and ingests it.
// Optional query parameters from and to (DD/MM/YYYY) bound the window.
// POST /v1/fetch-bcb
func (h *SelicHandler) FetchBCB(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		respondFailure(w, err)
		return
	}

	result, err := h.service.Sync(r.Context(), window)
	if err != nil {
		h.logger.WithError(err).Error("Upstream sync failed")

		var fetchErr *contracts.UpstreamFetchError
		if errors.As(err, &fetchErr) {
			respondError(w, http.StatusBadGateway, contracts.CategoryUpstreamFetch, "Failed to fetch data from BCB")
			return
		}
		respondFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newIngestResponse("BCB Data fetched and ingested", result))
}

// RawData returns every stored record, most recent first
// GET /v1/raw-data
func (h *SelicHandler) RawData(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Records(r.Context())
	if err != nil {
		respondFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// MetaSelic returns the current Copom target
// GET /v1/meta-selic
func (h *SelicHandler) MetaSelic(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.TargetRate(r.Context())
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, contracts.CategoryNotFound, "Meta Selic data not found")
			return
		}

		h.logger.WithError(err).Error("Failed to fetch Meta Selic")
		category := contracts.Category(err)
		if category != contracts.CategoryUpstreamSchema {
			category = contracts.CategoryUpstreamFetch
		}
		respondError(w, http.StatusBadGateway, category, "Failed to fetch Meta Selic")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

var errNotArray = errors.New("body is not a JSON array")

// decodeBatch reads exactly one JSON array from body. null and trailing
// content after the array are rejected.
func decodeBatch(body io.Reader) ([]contracts.IngestRequest, error) {
	dec := json.NewDecoder(body)

	var reqs []contracts.IngestRequest
	if err := dec.Decode(&reqs); err != nil {
		return nil, err
	}
	if reqs == nil {
		return nil, errNotArray
	}

	var trailing json.RawMessage
	if err := dec.Decode(&trailing); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected content after the array")
	}

	return reqs, nil
}

func parseWindow(r *http.Request) (contracts.SeriesWindow, error) {
	var window contracts.SeriesWindow
	q := r.URL.Query()

	if from := q.Get("from"); from != "" {
		t, err := quality.ParseDate(from)
		if err != nil {
			return window, err
		}
		window.From = t
	}
	if to := q.Get("to"); to != "" {
		t, err := quality.ParseDate(to)
		if err != nil {
			return window, err
		}
		window.To = t
	}
	return window, nil
}
