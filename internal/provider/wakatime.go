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

// WakaTimeFetcher 编码时长适配器。
// 产出 coding_time（当日秒数）与 languages_count / projects_count（当日快照计数）
type WakaTimeFetcher struct {
	client *resty.Client
}

func NewWakaTimeFetcher(baseURL string, timeout time.Duration) *WakaTimeFetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &WakaTimeFetcher{client: client}
}

func (f *WakaTimeFetcher) Provider() string {
	return consts.ProviderWakaTime
}

type wakaTimeSummaries struct {
	Data []struct {
		GrandTotal *struct {
			TotalSeconds float64 `json:"total_seconds"`
		} `json:"grand_total"`
		Languages []struct {
			Name string `json:"name"`
		} `json:"languages"`
		Projects []struct {
			Name string `json:"name"`
		} `json:"projects"`
	} `json:"data"`
}

func (f *WakaTimeFetcher) FetchMetrics(ctx context.Context, link *model.AccountLink, date time.Time) ([]Metric, error) {
	day := date.Format("2006-01-02")

	// WakaTime 以 API Key 作为 Basic Auth 用户名
	resp, err := f.client.R().
		SetContext(ctx).
		SetBasicAuth(link.AccessToken, "").
		SetQueryParams(map[string]string{
			"start": day,
			"end":   day,
		}).
		Get("/api/v1/users/current/summaries")
	if err != nil {
		return nil, Unavailable(f.Provider(), err)
	}
	if resp.IsError() {
		return nil, classifyStatus(f.Provider(), resp.StatusCode(), resp.String())
	}

	var payload wakaTimeSummaries
	if err = json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, Unavailable(f.Provider(), errors.Wrap(err, "decode summaries"))
	}
	if len(payload.Data) == 0 {
		return nil, DataMissing(f.Provider(), errors.New("summaries response has no data"))
	}

	summary := payload.Data[0]
	metrics := []Metric{
		{Type: consts.MetricLanguagesCount, Value: float64(len(summary.Languages)), Unit: util.PtrString("count")},
		{Type: consts.MetricProjectsCount, Value: float64(len(summary.Projects)), Unit: util.PtrString("count")},
	}
	if summary.GrandTotal == nil {
		return metrics, DataMissing(f.Provider(), errors.New("summary missing grand_total"))
	}
	metrics = append([]Metric{
		{Type: consts.MetricCodingTime, Value: summary.GrandTotal.TotalSeconds, Unit: util.PtrString("seconds")},
	}, metrics...)
	return metrics, nil
}
