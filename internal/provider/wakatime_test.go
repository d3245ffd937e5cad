package provider

import (
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wakatimeLink() *model.AccountLink {
	return &model.AccountLink{
		UserID:      1,
		Provider:    consts.ProviderWakaTime,
		AccessToken: "waka-key",
	}
}

func TestWakaTimeFetchMetrics(t *testing.T) {
	day := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/current/summaries", r.URL.Path)
		assert.Equal(t, "2025-03-02", r.URL.Query().Get("start"))
		assert.Equal(t, "2025-03-02", r.URL.Query().Get("end"))
		// API Key 作为 Basic Auth 用户名
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "waka-key", user)

		w.Write([]byte(`{
			"data": [{
				"grand_total": {"total_seconds": 5400},
				"languages": [{"name": "Go"}, {"name": "SQL"}],
				"projects": [{"name": "pulseboard"}]
			}]
		}`))
	}))
	defer srv.Close()

	fetcher := NewWakaTimeFetcher(srv.URL, 5*time.Second)
	metrics, err := fetcher.FetchMetrics(context.Background(), wakatimeLink(), day)
	require.NoError(t, err)
	require.Len(t, metrics, 3)

	codingTime := metricByType(metrics, consts.MetricCodingTime)
	require.NotNil(t, codingTime)
	assert.Equal(t, float64(5400), codingTime.Value)

	languages := metricByType(metrics, consts.MetricLanguagesCount)
	require.NotNil(t, languages)
	assert.Equal(t, float64(2), languages.Value)

	projects := metricByType(metrics, consts.MetricProjectsCount)
	require.NotNil(t, projects)
	assert.Equal(t, float64(1), projects.Value)
}

func TestWakaTimeEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	fetcher := NewWakaTimeFetcher(srv.URL, 5*time.Second)
	_, err := fetcher.FetchMetrics(context.Background(), wakatimeLink(), time.Now())
	require.Error(t, err)
	assert.Equal(t, KindDataMissing, KindOf(err))
}

func TestWakaTimeMissingGrandTotalIsPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data": [{"languages": [{"name": "Go"}], "projects": []}]}`))
	}))
	defer srv.Close()

	fetcher := NewWakaTimeFetcher(srv.URL, 5*time.Second)
	metrics, err := fetcher.FetchMetrics(context.Background(), wakatimeLink(), time.Now())
	require.Error(t, err)
	assert.Equal(t, KindDataMissing, KindOf(err))
	// 计数类快照照常返回
	require.Len(t, metrics, 2)
	assert.Nil(t, metricByType(metrics, consts.MetricCodingTime))
}

func TestWakaTimeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	fetcher := NewWakaTimeFetcher(srv.URL, 5*time.Second)
	_, err := fetcher.FetchMetrics(context.Background(), wakatimeLink(), time.Now())
	require.Error(t, err)
	assert.Equal(t, KindUnavailable, KindOf(err))
}
