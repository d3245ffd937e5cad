package api

import "Pulseboard/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	DailyStatHandler   *handler.DailyStatHandler
	MetricHandler      *handler.MetricHandler
	AccountLinkHandler *handler.AccountLinkHandler
}
