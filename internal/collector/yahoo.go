package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"SIPAdvisor/internal/model"
)

// YahooClient implements Provider for listed stocks and indices using the
// Yahoo Finance public API.
type YahooClient struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps friendly names to Yahoo tickers
}

// NewYahooClient creates a new Yahoo Finance client.
func NewYahooClient(baseURL string, timeout time.Duration, proxyURL string) *YahooClient {
	return &YahooClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(timeout, proxyURL),
		SymbolMap: map[string]string{
			"NIFTY":     "^NSEI",
			"NIFTY50":   "^NSEI",
			"SENSEX":    "^BSESN",
			"BANKNIFTY": "^NSEBANK",
		},
	}
}

func (c *YahooClient) Name() string { return "yahoo" }

func (c *YahooClient) yahooSymbol(symbol string) string {
	if mapped, ok := c.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol       string `json:"symbol"`
				LongName     string `json:"longName"`
				ShortName    string `json:"shortName"`
				InstrumentTy string `json:"instrumentType"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooSearch struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		QuoteType string `json:"quoteType"`
		Exchange  string `json:"exchange"`
	} `json:"quotes"`
}

// Search returns equity, ETF, index and mutual-fund quotes matching query.
func (c *YahooClient) Search(ctx context.Context, query string) ([]model.Instrument, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", model.ErrInvalidInput)
	}
	endpoint := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=10&newsCount=0",
		c.BaseURL, url.QueryEscape(query))

	var res yahooSearch
	if err := getJSON(ctx, c.Client, endpoint, &res); err != nil {
		return nil, fmt.Errorf("yahoo search %q: %w", query, err)
	}
	out := make([]model.Instrument, 0, len(res.Quotes))
	for _, q := range res.Quotes {
		kind := model.KindStock
		switch q.QuoteType {
		case "MUTUALFUND":
			kind = model.KindFund
		case "EQUITY", "ETF", "INDEX":
		default:
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		out = append(out, model.Instrument{
			ID:       q.Symbol,
			Name:     name,
			Category: q.QuoteType + " " + q.Exchange,
			Kind:     kind,
		})
	}
	return out, nil
}

// FetchSeries loads the full daily close history for a ticker. Adjusted closes
// are preferred when present. Timestamps are truncated to the UTC calendar day.
func (c *YahooClient) FetchSeries(ctx context.Context, id string) (*model.Series, error) {
	symbol := c.yahooSymbol(id)
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=max",
		c.BaseURL, url.PathEscape(symbol))

	var chart yahooChart
	if err := getJSON(ctx, c.Client, endpoint, &chart); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w: %s", symbol, model.ErrDataUnavailable, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w: no data returned", symbol, model.ErrDataUnavailable)
	}

	result := chart.Chart.Result[0]
	var closes []*float64
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) == len(result.Timestamp) {
		closes = result.Indicators.AdjClose[0].AdjClose
	} else if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("yahoo chart %s: %w: %d timestamps but %d closes",
			symbol, model.ErrDataUnavailable, len(result.Timestamp), len(closes))
	}

	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue // null bars (holidays etc.)
		}
		points = append(points, model.PricePoint{
			Time:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Value: *closes[i],
		})
	}

	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}
	if name == "" {
		name = symbol
	}
	kind := model.KindStock
	if result.Meta.InstrumentTy == "MUTUALFUND" {
		kind = model.KindFund
	}
	return &model.Series{
		Instrument: model.Instrument{ID: id, Name: name, Category: result.Meta.InstrumentTy, Kind: kind},
		Points:     points,
		FetchedAt:  time.Now(),
	}, nil
}
