package service

import (
	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/redis"
	"Pulseboard/internal/pkg/util"
	"Pulseboard/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

type DailyStatService interface {
	List(ctx context.Context, q *dto.DailyStatListQuery) (*dto.PageResult, error)
	GetByID(ctx context.Context, id uint64) (*dto.DailyStatDTO, error)
	Aggregate(ctx context.Context, userID uint64, provider string, start, end time.Time, metricType string) (map[string]*dto.MetricAggregateDTO, error)
}

type dailyStatServiceImpl struct {
	statRepo repository.DailyStatRepo
}

func NewDailyStatService(statRepo repository.DailyStatRepo) DailyStatService {
	return &dailyStatServiceImpl{statRepo: statRepo}
}

func (s *dailyStatServiceImpl) List(ctx context.Context, q *dto.DailyStatListQuery) (*dto.PageResult, error) {
	repoQuery := &repository.DailyStatQuery{
		UserID:     q.UserID,
		RecentDays: q.RecentDays,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
		Page:       q.Page,
		PerPage:    q.PerPage,
	}
	if q.Provider != nil {
		if !consts.IsValidProvider(*q.Provider) {
			return nil, ErrProviderInvalid
		}
		repoQuery.Provider = q.Provider
	}

	var err error
	if repoQuery.Date, err = parseDatePtr(q.Date); err != nil {
		return nil, err
	}
	if repoQuery.StartDate, err = parseDatePtr(q.StartDate); err != nil {
		return nil, err
	}
	if repoQuery.EndDate, err = parseDatePtr(q.EndDate); err != nil {
		return nil, err
	}
	if repoQuery.StartDate != nil && repoQuery.EndDate != nil && repoQuery.StartDate.After(*repoQuery.EndDate) {
		return nil, ErrDateRangeInvalid
	}

	stats, total, err := s.statRepo.List(ctx, repoQuery)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.DailyStatDTO, 0, len(stats))
	for _, stat := range stats {
		item, err := toDailyStatDTO(stat)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return &dto.PageResult{List: list, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *dailyStatServiceImpl) GetByID(ctx context.Context, id uint64) (*dto.DailyStatDTO, error) {
	stat, err := s.statRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stat == nil {
		return nil, ErrDailyStatNotFound
	}
	return toDailyStatDTO(stat)
}

// Aggregate 加载闭区间内的统计行并按指标类型折叠。
// 空区间返回空 map；metricType 过滤不命中时不产生该键。
// 快照型指标（仓库数、名次等）额外标记 Snapshot，调用方应取 Latest 而非 Total
func (s *dailyStatServiceImpl) Aggregate(ctx context.Context, userID uint64, provider string, start, end time.Time, metricType string) (map[string]*dto.MetricAggregateDTO, error) {
	if provider != "" && !consts.IsValidProvider(provider) {
		return nil, ErrProviderInvalid
	}
	if start.After(end) {
		return nil, ErrDateRangeInvalid
	}

	cacheKey := fmt.Sprintf("%s%d:%s:%s:%s:%s",
		consts.AggregateKey, userID, provider,
		start.Format("2006-01-02"), end.Format("2006-01-02"), metricType)

	if cached, err := redis.GetValue(ctx, cacheKey); err == nil && cached != "" {
		result := make(map[string]*dto.MetricAggregateDTO)
		if err = json.Unmarshal([]byte(cached), &result); err == nil {
			return result, nil
		}
	}

	stats, err := s.statRepo.ListRange(ctx, userID, provider, start, end)
	if err != nil {
		return nil, err
	}

	result := foldMetrics(stats, metricType)

	s.cacheAggregate(ctx, cacheKey, end, result)
	return result, nil
}

// foldMetrics 通用折叠：total/count/average 外加按日期升序的原始值序列
func foldMetrics(stats []*model.DailyStat, metricType string) map[string]*dto.MetricAggregateDTO {
	result := make(map[string]*dto.MetricAggregateDTO)
	for _, stat := range stats {
		day := stat.Date.Format("2006-01-02")
		for _, m := range stat.Metrics {
			if metricType != "" && m.Type != metricType {
				continue
			}
			entry, ok := result[m.Type]
			if !ok {
				entry = &dto.MetricAggregateDTO{
					Unit:     m.Unit,
					Snapshot: consts.IsSnapshotMetric(m.Type),
					Values:   make([]*dto.MetricValuePoint, 0, len(stats)),
				}
				result[m.Type] = entry
			}
			entry.Total += m.Value
			entry.Count++
			entry.Latest = m.Value
			entry.Values = append(entry.Values, &dto.MetricValuePoint{Date: day, Value: m.Value})
		}
	}
	for _, entry := range result {
		if entry.Count > 0 {
			entry.Average = entry.Total / float64(entry.Count)
		}
	}
	return result
}

func (s *dailyStatServiceImpl) cacheAggregate(ctx context.Context, key string, end time.Time, result map[string]*dto.MetricAggregateDTO) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}

	// 覆盖到今天的区间随午夜翻篇，历史区间给长一些
	expiration := time.Hour
	if !util.Midnight(end).Before(util.Midnight(time.Now())) {
		expiration = util.UntilMidnight(time.Now())
		if expiration <= 0 {
			return
		}
	}

	if err = redis.SetWithExpiration(ctx, key, string(data), expiration); err != nil {
		log.WarnContext(ctx, "cache aggregate failed", "key", key, "err", err)
	}
}

func toDailyStatDTO(stat *model.DailyStat) (*dto.DailyStatDTO, error) {
	item := &dto.DailyStatDTO{
		ID:       stat.ID,
		UserID:   stat.UserID,
		Date:     stat.Date.Format("2006-01-02"),
		Provider: stat.Provider,
		Meta:     stat.Meta,
		Metrics:  make([]*dto.MetricDTO, 0, len(stat.Metrics)),
	}
	if err := copier.Copy(&item.Metrics, stat.Metrics); err != nil {
		return nil, err
	}
	if stat.User != nil {
		item.User = &dto.UserDTO{}
		if err := copier.Copy(item.User, stat.User); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := util.ParseDate(*s)
	if err != nil {
		return nil, ErrDateInvalid
	}
	return &t, nil
}
