package provider

import (
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/util"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func githubLink(login string) *model.AccountLink {
	return &model.AccountLink{
		UserID:      1,
		Provider:    consts.ProviderGitHub,
		AccessToken: "gh-token",
		ExternalID:  util.PtrString(login),
	}
}

func metricByType(metrics []Metric, metricType string) *Metric {
	for i := range metrics {
		if metrics[i].Type == metricType {
			return &metrics[i]
		}
	}
	return nil
}

func TestGitHubFetchMetrics(t *testing.T) {
	day := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/octocat":
			w.Write([]byte(`{"login":"octocat","public_repos":10,"owned_private_repos":2}`))
		case "/users/octocat/events/public":
			w.Write([]byte(`[
				{"type":"PushEvent","created_at":"2025-03-02T10:00:00Z","payload":{"size":3}},
				{"type":"IssuesEvent","created_at":"2025-03-02T11:00:00Z","payload":{}},
				{"type":"PushEvent","created_at":"2025-03-01T09:00:00Z","payload":{"size":5}}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	fetcher := NewGitHubFetcher(srv.URL, 5*time.Second)
	metrics, err := fetcher.FetchMetrics(context.Background(), githubLink("octocat"), day)
	require.NoError(t, err)
	require.Len(t, metrics, 3)

	repos := metricByType(metrics, consts.MetricRepositories)
	require.NotNil(t, repos)
	assert.Equal(t, float64(12), repos.Value)

	commits := metricByType(metrics, consts.MetricCommits)
	require.NotNil(t, commits)
	// 只计入当日 PushEvent 的提交
	assert.Equal(t, float64(3), commits.Value)

	contributions := metricByType(metrics, consts.MetricContributions)
	require.NotNil(t, contributions)
	assert.Equal(t, float64(2), contributions.Value)
}

func TestGitHubAuthExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer srv.Close()

	fetcher := NewGitHubFetcher(srv.URL, 5*time.Second)
	_, err := fetcher.FetchMetrics(context.Background(), githubLink("octocat"), time.Now())
	require.Error(t, err)
	assert.Equal(t, KindAuthExpired, KindOf(err))
}

func TestGitHubMissingRepoCountIsPartial(t *testing.T) {
	day := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/octocat":
			w.Write([]byte(`{"login":"octocat"}`))
		case "/users/octocat/events/public":
			w.Write([]byte(`[{"type":"PushEvent","created_at":"2025-03-02T10:00:00Z","payload":{"size":1}}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	fetcher := NewGitHubFetcher(srv.URL, 5*time.Second)
	metrics, err := fetcher.FetchMetrics(context.Background(), githubLink("octocat"), day)
	require.Error(t, err)
	assert.Equal(t, KindDataMissing, KindOf(err))

	// 仓库数缺失，事件类指标照常返回
	require.Len(t, metrics, 2)
	assert.Nil(t, metricByType(metrics, consts.MetricRepositories))
	assert.NotNil(t, metricByType(metrics, consts.MetricCommits))
}

func TestGitHubNoExternalID(t *testing.T) {
	fetcher := NewGitHubFetcher("http://127.0.0.1:0", 5*time.Second)
	link := &model.AccountLink{UserID: 1, Provider: consts.ProviderGitHub, AccessToken: "gh-token"}

	_, err := fetcher.FetchMetrics(context.Background(), link, time.Now())
	require.Error(t, err)
	assert.Equal(t, KindDataMissing, KindOf(err))
}
