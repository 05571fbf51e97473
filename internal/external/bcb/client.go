package bcb

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/httputil"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/logger"
)

const source = "bcb"

// Client reads series from the Banco Central do Brasil SGS API
// ⭐ SSOT: SGS calls are made from this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        Config
}

// Config selects the SGS endpoint and series
type Config struct {
	BaseURL          string // e.g. https://api.bcb.gov.br/dados/serie
	SeriesCode       string
	TargetSeriesCode string
}

// NewClient creates a new SGS client
func NewClient(httpClient *httputil.Client, cfg Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Module("bcb"),
		cfg:        cfg,
	}
}

// sgsPoint is one element of an SGS answer. Both fields are required.
type sgsPoint struct {
	Data  *string             `json:"data"`
	Valor contracts.RateValue `json:"valor"`
}

// SeriesURL builds the full-series URL, with window bounds when set
func (c *Client) SeriesURL(window contracts.SeriesWindow) string {
	q := url.Values{}
	q.Set("formato", "json")
	if !window.From.IsZero() {
		q.Set("dataInicial", window.From.Format(contracts.DisplayLayout))
	}
	if !window.To.IsZero() {
		q.Set("dataFinal", window.To.Format(contracts.DisplayLayout))
	}
	return fmt.Sprintf("%s/bcdata.sgs.%s/dados?%s", c.cfg.BaseURL, c.cfg.SeriesCode, q.Encode())
}

// TargetURL builds the latest-observation URL of the target series
func (c *Client) TargetURL() string {
	return fmt.Sprintf("%s/bcdata.sgs.%s/dados/ultimos/1?formato=json", c.cfg.BaseURL, c.cfg.TargetSeriesCode)
}

// FetchSeries downloads the configured series.
// Values are passed through as received; validation happens downstream.
func (c *Client) FetchSeries(ctx context.Context, window contracts.SeriesWindow) ([]contracts.IngestRequest, error) {
	points, err := c.fetch(ctx, c.SeriesURL(window))
	if err != nil {
		return nil, err
	}

	reqs := make([]contracts.IngestRequest, 0, len(points))
	for _, p := range points {
		reqs = append(reqs, contracts.IngestRequest{DateText: *p.Data, Value: p.Valor})
	}

	c.logger.WithFields(map[string]interface{}{
		"series": c.cfg.SeriesCode,
		"points": len(reqs),
	}).Info("Fetched series")

	return reqs, nil
}

// FetchTargetRate returns the most recent target observation.
// An empty answer is contracts.ErrNotFound.
func (c *Client) FetchTargetRate(ctx context.Context) (*contracts.TargetRateSnapshot, error) {
	points, err := c.fetch(ctx, c.TargetURL())
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("series %s has no observations: %w", c.cfg.TargetSeriesCode, contracts.ErrNotFound)
	}

	latest := points[len(points)-1]
	value, err := latest.Valor.Float()
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, &contracts.UpstreamSchemaError{
			Source: source,
			Reason: fmt.Sprintf("valor %q is not a number", latest.Valor.Text()),
			Err:    err,
		}
	}

	return &contracts.TargetRateSnapshot{DateText: *latest.Data, Value: value}, nil
}

// fetch performs one GET and decodes the SGS array
func (c *Client) fetch(ctx context.Context, target string) ([]sgsPoint, error) {
	resp, err := c.httpClient.Get(ctx, target)
	if err != nil {
		return nil, &contracts.UpstreamFetchError{Source: source, URL: target, Err: err}
	}

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, &contracts.UpstreamFetchError{Source: source, URL: target, Err: err}
	}

	if !httputil.IsSuccess(resp.StatusCode) {
		c.logger.WithFields(map[string]interface{}{
			"url":         target,
			"status_code": resp.StatusCode,
		}).Warn("Upstream returned non-success status")
		return nil, &contracts.UpstreamFetchError{
			Source:     source,
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	return decodePoints(body)
}

// decodePoints checks the payload shape: an array of objects with data and valor
func decodePoints(body []byte) ([]sgsPoint, error) {
	var points []sgsPoint
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, &contracts.UpstreamSchemaError{Source: source, Reason: "expected a JSON array of observations", Err: err}
	}

	for i, p := range points {
		if p.Data == nil {
			return nil, &contracts.UpstreamSchemaError{Source: source, Reason: fmt.Sprintf("item %d has no data", i)}
		}
		if !p.Valor.IsSet() {
			return nil, &contracts.UpstreamSchemaError{Source: source, Reason: fmt.Sprintf("item %d has no valor", i)}
		}
	}
	return points, nil
}
