package provider

import (
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/util"
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// GitHubFetcher 源码托管适配器。
// 产出 commits（当日提交数）、repositories（仓库总数快照）、contributions（当日活动数）
type GitHubFetcher struct {
	client *resty.Client
}

func NewGitHubFetcher(baseURL string, timeout time.Duration) *GitHubFetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/vnd.github+json")
	return &GitHubFetcher{client: client}
}

func (f *GitHubFetcher) Provider() string {
	return consts.ProviderGitHub
}

type githubUser struct {
	PublicRepos       *int `json:"public_repos"`
	OwnedPrivateRepos int  `json:"owned_private_repos"`
}

type githubEvent struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Payload   struct {
		Size    int `json:"size"`
		Commits []struct {
			SHA string `json:"sha"`
		} `json:"commits"`
	} `json:"payload"`
}

// 计入 contributions 的事件类型
var githubContributionEvents = map[string]struct{}{
	"PushEvent":              {},
	"PullRequestEvent":       {},
	"IssuesEvent":            {},
	"PullRequestReviewEvent": {},
	"CreateEvent":            {},
}

func (f *GitHubFetcher) FetchMetrics(ctx context.Context, link *model.AccountLink, date time.Time) ([]Metric, error) {
	if link.ExternalID == nil || *link.ExternalID == "" {
		return nil, DataMissing(f.Provider(), errors.New("account link has no github login"))
	}
	login := *link.ExternalID

	resp, err := f.client.R().
		SetContext(ctx).
		SetAuthToken(link.AccessToken).
		Get("/users/" + login)
	if err != nil {
		return nil, Unavailable(f.Provider(), err)
	}
	if resp.IsError() {
		return nil, classifyStatus(f.Provider(), resp.StatusCode(), resp.String())
	}

	var user githubUser
	if err = json.Unmarshal(resp.Body(), &user); err != nil {
		return nil, Unavailable(f.Provider(), errors.Wrap(err, "decode user"))
	}

	metrics := make([]Metric, 0, 3)
	if user.PublicRepos != nil {
		metrics = append(metrics, Metric{
			Type:  consts.MetricRepositories,
			Value: float64(*user.PublicRepos + user.OwnedPrivateRepos),
			Unit:  util.PtrString("count"),
		})
	}

	resp, err = f.client.R().
		SetContext(ctx).
		SetAuthToken(link.AccessToken).
		SetQueryParam("per_page", "100").
		Get("/users/" + login + "/events/public")
	if err != nil {
		return metrics, Unavailable(f.Provider(), err)
	}
	if resp.IsError() {
		return metrics, classifyStatus(f.Provider(), resp.StatusCode(), resp.String())
	}

	var events []githubEvent
	if err = json.Unmarshal(resp.Body(), &events); err != nil {
		return metrics, Unavailable(f.Provider(), errors.Wrap(err, "decode events"))
	}

	day := date.Format("2006-01-02")
	commits := 0
	contributions := 0
	for _, ev := range events {
		if ev.CreatedAt.UTC().Format("2006-01-02") != day {
			continue
		}
		if _, ok := githubContributionEvents[ev.Type]; ok {
			contributions++
		}
		if ev.Type == "PushEvent" {
			if ev.Payload.Size > 0 {
				commits += ev.Payload.Size
			} else {
				commits += len(ev.Payload.Commits)
			}
		}
	}

	metrics = append(metrics,
		Metric{Type: consts.MetricCommits, Value: float64(commits), Unit: util.PtrString("count")},
		Metric{Type: consts.MetricContributions, Value: float64(contributions), Unit: util.PtrString("count")},
	)

	if user.PublicRepos == nil {
		// 仓库数字段缺失，已解析出的事件指标照常返回
		return metrics, DataMissing(f.Provider(), errors.New("user response missing public_repos"))
	}
	return metrics, nil
}
