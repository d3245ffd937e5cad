package provider

import (
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/util"
	"context"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// TokenSaver 持久化刷新后的 OAuth 凭证，由适配器在换发成功后回调
type TokenSaver func(ctx context.Context, link *model.AccountLink) error

// FitbitFetcher 运动步数适配器，OAuth 令牌过期时负责换发并重试一次。
// 产出 steps（步数）、distance（米）、calories（千卡）
type FitbitFetcher struct {
	client       *resty.Client
	tokenURL     string
	clientID     string
	clientSecret string
	saveToken    TokenSaver
}

func NewFitbitFetcher(baseURL, tokenURL, clientID, clientSecret string, timeout time.Duration, saveToken TokenSaver) *FitbitFetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &FitbitFetcher{
		client:       client,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		saveToken:    saveToken,
	}
}

func (f *FitbitFetcher) Provider() string {
	return consts.ProviderFitbit
}

type fitbitActivities struct {
	Summary *struct {
		Steps       *int    `json:"steps"`
		CaloriesOut float64 `json:"caloriesOut"`
		Distances   []struct {
			Activity string  `json:"activity"`
			Distance float64 `json:"distance"`
		} `json:"distances"`
	} `json:"summary"`
}

type fitbitTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func (f *FitbitFetcher) FetchMetrics(ctx context.Context, link *model.AccountLink, date time.Time) ([]Metric, error) {
	resp, err := f.getActivities(ctx, link, date)
	if err != nil {
		return nil, Unavailable(f.Provider(), err)
	}

	// 令牌过期先换发再重试一次
	if resp.StatusCode() == 401 && link.RefreshToken != nil {
		if err = f.refreshToken(ctx, link); err != nil {
			return nil, AuthExpired(f.Provider(), err)
		}
		resp, err = f.getActivities(ctx, link, date)
		if err != nil {
			return nil, Unavailable(f.Provider(), err)
		}
	}
	if resp.IsError() {
		return nil, classifyStatus(f.Provider(), resp.StatusCode(), resp.String())
	}

	var payload fitbitActivities
	if err = json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, Unavailable(f.Provider(), errors.Wrap(err, "decode activities"))
	}
	if payload.Summary == nil {
		return nil, DataMissing(f.Provider(), errors.New("activities response has no summary"))
	}

	summary := payload.Summary
	totalKm := 0.0
	for _, d := range summary.Distances {
		if d.Activity == "total" {
			totalKm = d.Distance
			break
		}
	}
	metrics := []Metric{
		{Type: consts.MetricDistance, Value: totalKm * 1000, Unit: util.PtrString("meters")},
		{Type: consts.MetricCalories, Value: summary.CaloriesOut, Unit: util.PtrString("kcal")},
	}
	if summary.Steps == nil {
		return metrics, DataMissing(f.Provider(), errors.New("summary missing steps"))
	}
	metrics = append([]Metric{
		{Type: consts.MetricSteps, Value: float64(*summary.Steps), Unit: util.PtrString("count")},
	}, metrics...)
	return metrics, nil
}

func (f *FitbitFetcher) getActivities(ctx context.Context, link *model.AccountLink, date time.Time) (*resty.Response, error) {
	return f.client.R().
		SetContext(ctx).
		SetAuthToken(link.AccessToken).
		Get("/1/user/-/activities/date/" + date.Format("2006-01-02") + ".json")
}

// refreshToken 用 refresh_token 换发新令牌并通过回调持久化
func (f *FitbitFetcher) refreshToken(ctx context.Context, link *model.AccountLink) error {
	resp, err := f.client.R().
		SetContext(ctx).
		SetBasicAuth(f.clientID, f.clientSecret).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": *link.RefreshToken,
		}).
		Post(f.tokenURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return errors.Errorf("token refresh status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	var token fitbitTokenResponse
	if err = json.Unmarshal(resp.Body(), &token); err != nil {
		return errors.Wrap(err, "decode token response")
	}
	if token.AccessToken == "" {
		return errors.New("token response missing access_token")
	}

	link.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		link.RefreshToken = &token.RefreshToken
	}
	if token.ExpiresIn > 0 {
		expiry := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
		link.TokenExpiry = &expiry
	}

	if f.saveToken != nil {
		if err = f.saveToken(ctx, link); err != nil {
			// 换发已生效，持久化失败只记日志，下个周期会再换发
			log.WarnContext(ctx, "persist refreshed fitbit token failed", "user_id", link.UserID, "err", err)
		}
	}
	return nil
}
