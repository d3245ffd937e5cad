package job

import (
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/logger"
	"Pulseboard/internal/pkg/redis"
	"Pulseboard/internal/pkg/util"
	"Pulseboard/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// CollectJob 调度器每个周期触发一次的采集任务。
// 先消费 cmd/collect 异步入队的显式日期，再采集当天
type CollectJob struct {
	collectionSvc service.CollectionService
}

func NewCollectJob(collectionSvc service.CollectionService) *CollectJob {
	return &CollectJob{
		collectionSvc: collectionSvc,
	}
}

func (s *CollectJob) Run() {
	traceID := "job-collect-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	dates := s.drainQueuedDates(ctx)
	if len(dates) == 0 {
		dates = []time.Time{util.Midnight(time.Now())}
	}

	for _, date := range dates {
		summary, err := s.collectionSvc.CollectAll(ctx, date)
		if err != nil {
			log.ErrorContext(ctx, "collect run failed", "date", date.Format("2006-01-02"), "err", err)
			continue
		}
		log.InfoContext(ctx, "collect run finished",
			"date", date.Format("2006-01-02"),
			"users", summary.Users,
			"pairs", summary.Pairs,
			"succeeded", summary.Succeeded,
			"partial", summary.Partial,
			"failed", summary.Failed,
			"skipped", summary.Skipped)
	}
}

// drainQueuedDates 取出队列里所有待回填的日期，去重
func (s *CollectJob) drainQueuedDates(ctx context.Context) []time.Time {
	seen := make(map[string]struct{})
	dates := make([]time.Time, 0)
	for {
		raw, err := redis.PopQueue(ctx, consts.CollectQueueKey)
		if err != nil {
			log.ErrorContext(ctx, "pop collect queue error", "err", err)
			break
		}
		if raw == "" {
			break
		}
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}

		date, err := util.ParseDate(raw)
		if err != nil {
			log.WarnContext(ctx, "invalid queued collect date", "raw", raw)
			continue
		}
		dates = append(dates, date)
	}
	return dates
}
