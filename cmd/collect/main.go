package main

import (
	"Pulseboard/internal/api/config"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/database"
	"Pulseboard/internal/pkg/logger"
	"Pulseboard/internal/pkg/redis"
	"Pulseboard/internal/pkg/util"
	"Pulseboard/internal/wire"
	"context"
	"fmt"
	log "log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var syncMode bool

// collect [date] 手动触发一轮采集。
// 默认把日期入队，由 api 进程的下个调度周期消费；--sync 时在本进程内同步执行
var rootCmd = &cobra.Command{
	Use:   "collect [date]",
	Short: "Trigger a collection run for all linked accounts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := util.Midnight(time.Now())
		if len(args) == 1 {
			parsed, err := util.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", args[0], err)
			}
			date = parsed
		}

		if err := config.LoadConfig(); err != nil {
			return err
		}
		logger.InitLogger()

		if err := redis.InitRedis(config.Cfg.Redis); err != nil {
			return err
		}

		traceID := "cli-collect-" + uuid.NewString()
		ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

		if !syncMode {
			if err := redis.PushQueue(ctx, consts.CollectQueueKey, date.Format("2006-01-02")); err != nil {
				return err
			}
			log.InfoContext(ctx, "collect run queued", "date", date.Format("2006-01-02"))
			return nil
		}

		dbCfg := config.Cfg.DB
		db, err := database.NewGormDB(&dbCfg)
		if err != nil {
			return err
		}

		app, err := wire.BuildApplication(db, config.Cfg)
		if err != nil {
			return err
		}

		summary, err := app.CollectionSvc.CollectAll(ctx, date)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "collect run finished",
			"date", date.Format("2006-01-02"),
			"users", summary.Users,
			"pairs", summary.Pairs,
			"succeeded", summary.Succeeded,
			"partial", summary.Partial,
			"failed", summary.Failed,
			"skipped", summary.Skipped)
		return nil
	},
}

func main() {
	rootCmd.Flags().BoolVar(&syncMode, "sync", false, "run the collection in-process instead of queueing it")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
