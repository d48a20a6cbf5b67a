package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"SIPAdvisor/internal/model"
)

// MFAPIClient implements Provider for Indian mutual-fund schemes using the
// public mfapi.in REST API.
type MFAPIClient struct {
	BaseURL string
	Client  *http.Client
}

// NewMFAPIClient creates a client with optional proxy support.
func NewMFAPIClient(baseURL string, timeout time.Duration, proxyURL string) *MFAPIClient {
	return &MFAPIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(timeout, proxyURL),
	}
}

func (c *MFAPIClient) Name() string { return "mfapi" }

// mfScheme is one search hit. schemeCode is numeric in practice but is
// accepted as either JSON number or string.
type mfScheme struct {
	SchemeCode json.Number `json:"schemeCode"`
	SchemeName string      `json:"schemeName"`
}

// mfHistory is the /mf/{code} response.
type mfHistory struct {
	Meta struct {
		FundHouse      string      `json:"fund_house"`
		SchemeType     string      `json:"scheme_type"`
		SchemeCategory string      `json:"scheme_category"`
		SchemeCode     json.Number `json:"scheme_code"`
		SchemeName     string      `json:"scheme_name"`
	} `json:"meta"`
	Data []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
	Status string `json:"status"`
}

// Search returns schemes whose name matches query.
func (c *MFAPIClient) Search(ctx context.Context, query string) ([]model.Instrument, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", model.ErrInvalidInput)
	}
	endpoint := fmt.Sprintf("%s/mf/search?q=%s", c.BaseURL, url.QueryEscape(query))

	var hits []mfScheme
	if err := getJSON(ctx, c.Client, endpoint, &hits); err != nil {
		return nil, fmt.Errorf("mfapi search %q: %w", query, err)
	}
	out := make([]model.Instrument, 0, len(hits))
	for _, h := range hits {
		if h.SchemeCode == "" {
			continue
		}
		out = append(out, model.Instrument{
			ID:   h.SchemeCode.String(),
			Name: h.SchemeName,
			Kind: model.KindFund,
		})
	}
	return out, nil
}

// FetchSeries loads the full NAV history of a scheme. mfapi returns newest
// first with dd-mm-yyyy dates; ordering is left to the calculator.
func (c *MFAPIClient) FetchSeries(ctx context.Context, id string) (*model.Series, error) {
	endpoint := fmt.Sprintf("%s/mf/%s", c.BaseURL, url.PathEscape(id))

	var h mfHistory
	if err := getJSON(ctx, c.Client, endpoint, &h); err != nil {
		return nil, fmt.Errorf("mfapi scheme %s: %w", id, err)
	}
	if len(h.Data) == 0 {
		return nil, fmt.Errorf("mfapi scheme %s: %w: no NAV history", id, model.ErrDataUnavailable)
	}

	points := make([]model.PricePoint, 0, len(h.Data))
	for _, d := range h.Data {
		ts, err := time.Parse("02-01-2006", d.Date)
		if err != nil {
			return nil, fmt.Errorf("mfapi scheme %s: %w: bad date %q", id, model.ErrDataUnavailable, d.Date)
		}
		nav, err := strconv.ParseFloat(strings.TrimSpace(d.NAV), 64)
		if err != nil {
			return nil, fmt.Errorf("mfapi scheme %s: %w: bad nav %q on %s", id, model.ErrDataUnavailable, d.NAV, d.Date)
		}
		points = append(points, model.PricePoint{Time: ts, Value: nav})
	}

	name := h.Meta.SchemeName
	if name == "" {
		name = id
	}
	return &model.Series{
		Instrument: model.Instrument{
			ID:       id,
			Name:     name,
			Category: h.Meta.SchemeCategory,
			Kind:     model.KindFund,
		},
		Points:    points,
		FetchedAt: time.Now(),
	}, nil
}
