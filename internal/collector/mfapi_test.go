package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SIPAdvisor/internal/model"
)

func newMFAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/mf/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "large cap", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"schemeCode":120503,"schemeName":"Axis Large Cap Fund - Direct Growth"},{"schemeCode":"118989","schemeName":"HDFC Large Cap"}]`))
	})
	mux.HandleFunc("/mf/120503", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{"fund_house":"Axis","scheme_category":"Equity Scheme - Large Cap Fund","scheme_code":120503,"scheme_name":"Axis Large Cap Fund"},
			"data":[{"date":"03-01-2024","nav":"52.10"},{"date":"02-01-2024","nav":"51.00"},{"date":"01-01-2024","nav":"50.00"}],"status":"SUCCESS"}`))
	})
	mux.HandleFunc("/mf/999", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{},"data":[],"status":"SUCCESS"}`))
	})
	mux.HandleFunc("/mf/500", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/mf/777", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{},"data":[{"date":"2024-01-01","nav":"1"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMFAPI_Search(t *testing.T) {
	srv := newMFAPIServer(t)
	c := NewMFAPIClient(srv.URL+"/", time.Second, "")

	found, err := c.Search(context.Background(), "large cap")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "120503", found[0].ID)
	assert.Equal(t, "118989", found[1].ID)
	assert.Equal(t, model.KindFund, found[0].Kind)
}

func TestMFAPI_SearchEmptyQuery(t *testing.T) {
	c := NewMFAPIClient("http://127.0.0.1:1", time.Second, "")
	_, err := c.Search(context.Background(), "  ")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestMFAPI_FetchSeries(t *testing.T) {
	srv := newMFAPIServer(t)
	c := NewMFAPIClient(srv.URL, time.Second, "")

	s, err := c.FetchSeries(context.Background(), "120503")
	require.NoError(t, err)
	require.Len(t, s.Points, 3)
	assert.Equal(t, "Axis Large Cap Fund", s.Instrument.Name)
	assert.Equal(t, "Equity Scheme - Large Cap Fund", s.Instrument.Category)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), s.Points[0].Time)
	assert.Equal(t, 52.10, s.Points[0].Value)
}

func TestMFAPI_FetchSeriesFailures(t *testing.T) {
	srv := newMFAPIServer(t)
	c := NewMFAPIClient(srv.URL, time.Second, "")

	for _, id := range []string{"999", "500", "777", "404"} {
		_, err := c.FetchSeries(context.Background(), id)
		assert.ErrorIs(t, err, model.ErrDataUnavailable, id)
	}
}

func TestMFAPI_ContextCancelled(t *testing.T) {
	srv := newMFAPIServer(t)
	c := NewMFAPIClient(srv.URL, time.Second, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchSeries(ctx, "120503")
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMFAPI_DecodeErrorKeepsCause(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": "not a list"}`))
	}))
	defer srv.Close()

	_, err := NewMFAPIClient(srv.URL, time.Second, "").FetchSeries(context.Background(), "1")
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, err, &typeErr)
}
