package service

import (
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/redis"
	"Pulseboard/internal/pkg/util"
	"Pulseboard/internal/provider"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"Pulseboard/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CollectSummary 一轮采集的汇总计数
type CollectSummary struct {
	Date      time.Time `json:"date"`
	Users     int       `json:"users"`
	Pairs     int       `json:"pairs"`
	Succeeded int       `json:"succeeded"`
	Partial   int       `json:"partial"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
}

type CollectionService interface {
	CollectPair(ctx context.Context, link *model.AccountLink, date time.Time) error
	CollectAll(ctx context.Context, date time.Time) (*CollectSummary, error)
}

type collectionServiceImpl struct {
	userRepo    repository.UserRepo
	statRepo    repository.DailyStatRepo
	metricRepo  repository.DailyStatMetricRepo
	registry    *provider.Registry
	workers     int
	callTimeout time.Duration
}

func NewCollectionService(
	userRepo repository.UserRepo,
	statRepo repository.DailyStatRepo,
	metricRepo repository.DailyStatMetricRepo,
	registry *provider.Registry,
	workers int,
	callTimeout time.Duration,
) CollectionService {
	if workers < 1 {
		workers = 4
	}
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &collectionServiceImpl{
		userRepo:    userRepo,
		statRepo:    statRepo,
		metricRepo:  metricRepo,
		registry:    registry,
		workers:     workers,
		callTimeout: callTimeout,
	}
}

// CollectPair 处理单个 (用户, 服务商) 对：
// 定位或创建当日 DailyStat，调用适配器拉取数据，逐条 Upsert 指标。
// 重复执行收敛到相同的最终状态（按指标类型覆盖写，不累加）
func (s *collectionServiceImpl) CollectPair(ctx context.Context, link *model.AccountLink, date time.Time) error {
	day := util.Midnight(date)

	fetcher := s.registry.Get(link.Provider)
	if fetcher == nil {
		return ErrProviderNotWired
	}

	stat, err := s.statRepo.FindOrCreate(ctx, link.UserID, link.Provider, day)
	if err != nil {
		return err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	metrics, fetchErr := fetcher.FetchMetrics(fetchCtx, link, day)

	// 数据缺失时照常落库已解析出的部分指标，不视为硬失败
	if fetchErr != nil && provider.KindOf(fetchErr) != provider.KindDataMissing {
		return fetchErr
	}

	for _, m := range metrics {
		record := &model.DailyStatMetric{
			DailyStatID: stat.ID,
			Type:        m.Type,
			Value:       m.Value,
			Unit:        m.Unit,
			Meta:        m.Meta,
		}
		if err = s.metricRepo.Upsert(ctx, record); err != nil {
			return err
		}
	}

	s.markCollected(ctx, link)
	s.invalidateCache(ctx, link.UserID)

	if fetchErr != nil {
		log.WarnContext(ctx, "collect pair stored partial metrics",
			"user_id", link.UserID,
			"provider", link.Provider,
			"stored", len(metrics),
			"err", fetchErr)
		return fetchErr
	}
	return nil
}

// CollectAll 枚举所有绑定了账号的用户，把 (用户, 服务商) 对交给有界工作池。
// 单对失败只计数，不中断同级任务
func (s *collectionServiceImpl) CollectAll(ctx context.Context, date time.Time) (*CollectSummary, error) {
	day := util.Midnight(date)

	users, err := s.userRepo.ListUsersWithAccountLinks(ctx)
	if err != nil {
		return nil, err
	}

	pairs := make([]*model.AccountLink, 0, len(users)*2)
	for _, u := range users {
		for i := range u.AccountLinks {
			pairs = append(pairs, &u.AccountLinks[i])
		}
	}

	summary := &CollectSummary{
		Date:  day,
		Users: len(users),
		Pairs: len(pairs),
	}

	var succeeded, partial, failed, skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, link := range pairs {
		link := link
		g.Go(func() error {
			if !s.lockPair(gctx, link, day) {
				// 另一个实例正在采集同一对，跳过本轮
				skipped.Add(1)
				return nil
			}
			err := s.CollectPair(gctx, link, day)
			switch {
			case err == nil:
				succeeded.Add(1)
			case provider.KindOf(err) == provider.KindDataMissing:
				partial.Add(1)
			default:
				failed.Add(1)
				log.ErrorContext(gctx, "collect pair failed",
					"user_id", link.UserID,
					"provider", link.Provider,
					"kind", provider.KindOf(err).String(),
					"err", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary.Succeeded = int(succeeded.Load())
	summary.Partial = int(partial.Load())
	summary.Failed = int(failed.Load())
	summary.Skipped = int(skipped.Load())
	return summary, nil
}

// lockPair 为单个 (用户, 服务商, 日期) 加短锁，避免相邻调度周期重叠采集
func (s *collectionServiceImpl) lockPair(ctx context.Context, link *model.AccountLink, day time.Time) bool {
	key := consts.CollectPairLock +
		strconv.FormatUint(link.UserID, 10) + ":" + link.Provider + ":" + day.Format("2006-01-02")
	locked, err := redis.TryLock(ctx, key, uuid.NewString(), s.callTimeout+10*time.Second, 1)
	if err != nil {
		log.WarnContext(ctx, "acquire pair lock failed", "key", key, "err", err)
		return true
	}
	return locked
}

// markCollected 记录该对最近一次成功采集时间，用于区分"未采集过"与"采集了但没数据"
func (s *collectionServiceImpl) markCollected(ctx context.Context, link *model.AccountLink) {
	key := consts.CollectLastRunKey + strconv.FormatUint(link.UserID, 10) + ":" + link.Provider
	_ = redis.SetWithExpiration(ctx, key, time.Now().UTC().Format(time.RFC3339), 0)
}

func (s *collectionServiceImpl) invalidateCache(ctx context.Context, userID uint64) {
	prefix := consts.AggregateKey + fmt.Sprintf("%d:", userID)
	if err := redis.DeleteByPrefix(ctx, prefix); err != nil {
		log.WarnContext(ctx, "invalidate aggregate cache failed", "user_id", userID, "err", err)
	}
}
