package cron

import (
	"Pulseboard/internal/api/config"
	"Pulseboard/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// 默认每 15 分钟采集一次
const defaultCollectSpec = "0 */15 * * * *"

type Manager struct {
	engine     *cron.Cron
	collectJob *job.CollectJob
}

func NewCronManager(collectJob *job.CollectJob) *Manager {
	return &Manager{
		engine:     cron.New(cron.WithSeconds()),
		collectJob: collectJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	spec := config.Cfg.Collector.CronSpec
	if spec == "" {
		spec = defaultCollectSpec
	}
	if _, err := s.engine.AddJob(spec, s.collectJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
