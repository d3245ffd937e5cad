package provider

import (
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/util"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// LeetCodeFetcher 刷题适配器，走官方 GraphQL 接口。
// 产出分难度的累计解题数、当日提交数和 ranking（名次快照，取最新值而非求和）
type LeetCodeFetcher struct {
	client *resty.Client
}

func NewLeetCodeFetcher(baseURL string, timeout time.Duration) *LeetCodeFetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &LeetCodeFetcher{client: client}
}

func (f *LeetCodeFetcher) Provider() string {
	return consts.ProviderLeetCode
}

const leetCodeQuery = `query userDailyStats($username: String!) {
  matchedUser(username: $username) {
    profile { ranking }
    submitStatsGlobal {
      acSubmissionNum { difficulty count }
    }
  }
  recentAcSubmissionList(username: $username, limit: 50) {
    timestamp
  }
}`

type leetCodeResponse struct {
	Data struct {
		MatchedUser *struct {
			Profile struct {
				Ranking *int `json:"ranking"`
			} `json:"profile"`
			SubmitStatsGlobal struct {
				AcSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStatsGlobal"`
		} `json:"matchedUser"`
		RecentAcSubmissionList []struct {
			Timestamp string `json:"timestamp"`
		} `json:"recentAcSubmissionList"`
	} `json:"data"`
}

func (f *LeetCodeFetcher) FetchMetrics(ctx context.Context, link *model.AccountLink, date time.Time) ([]Metric, error) {
	if link.ExternalID == nil || *link.ExternalID == "" {
		return nil, DataMissing(f.Provider(), errors.New("account link has no leetcode username"))
	}

	body := map[string]any{
		"query":     leetCodeQuery,
		"variables": map[string]string{"username": *link.ExternalID},
	}
	req := f.client.R().SetContext(ctx).SetBody(body)
	if link.AccessToken != "" {
		req.SetCookie(&http.Cookie{Name: "LEETCODE_SESSION", Value: link.AccessToken})
	}
	resp, err := req.Post("/graphql")
	if err != nil {
		return nil, Unavailable(f.Provider(), err)
	}
	if resp.IsError() {
		return nil, classifyStatus(f.Provider(), resp.StatusCode(), resp.String())
	}

	var payload leetCodeResponse
	if err = json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, Unavailable(f.Provider(), errors.Wrap(err, "decode graphql response"))
	}
	matched := payload.Data.MatchedUser
	if matched == nil {
		return nil, DataMissing(f.Provider(), errors.New("matchedUser not found"))
	}

	metrics := make([]Metric, 0, 5)
	difficultyTypes := map[string]string{
		"Easy":   consts.MetricSolvedEasy,
		"Medium": consts.MetricSolvedMedium,
		"Hard":   consts.MetricSolvedHard,
	}
	for _, item := range matched.SubmitStatsGlobal.AcSubmissionNum {
		metricType, ok := difficultyTypes[item.Difficulty]
		if !ok {
			continue
		}
		metrics = append(metrics, Metric{Type: metricType, Value: float64(item.Count), Unit: util.PtrString("count")})
	}

	day := date.UTC().Format("2006-01-02")
	submissions := 0
	for _, s := range payload.Data.RecentAcSubmissionList {
		ts, err := strconv.ParseInt(s.Timestamp, 10, 64)
		if err != nil {
			continue
		}
		if time.Unix(ts, 0).UTC().Format("2006-01-02") == day {
			submissions++
		}
	}
	metrics = append(metrics, Metric{Type: consts.MetricSubmissionsToday, Value: float64(submissions), Unit: util.PtrString("count")})

	if matched.Profile.Ranking != nil {
		metrics = append(metrics, Metric{Type: consts.MetricRanking, Value: float64(*matched.Profile.Ranking), Unit: util.PtrString("position")})
		return metrics, nil
	}
	return metrics, DataMissing(f.Provider(), errors.New("profile missing ranking"))
}
