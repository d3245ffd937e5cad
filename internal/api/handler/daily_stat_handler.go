package handler

import (
	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/response"
	"Pulseboard/internal/pkg/util"
	"Pulseboard/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type DailyStatHandler struct {
	dailyStatSvc service.DailyStatService
}

func NewDailyStatHandler(dailyStatSvc service.DailyStatService) *DailyStatHandler {
	return &DailyStatHandler{
		dailyStatSvc: dailyStatSvc,
	}
}

// List GET /daily-stats 带过滤与分页的统计行列表
func (s *DailyStatHandler) List(c *gin.Context) {
	var query dto.DailyStatListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.dailyStatSvc.List(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetByID GET /daily-stats/:id 单条统计行，含指标与用户
func (s *DailyStatHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	stat, err := s.dailyStatSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stat)
}

// Aggregate GET /daily-stats-aggregated 按指标类型折叠的区间聚合。
// user_id 必填、provider 必须在枚举内，否则 422
func (s *DailyStatHandler) Aggregate(c *gin.Context) {
	var query dto.AggregateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	if query.UserID == nil {
		response.FailValidation(c, map[string]string{"user_id": "user_id 为必填参数"})
		return
	}

	providerID := ""
	if query.Provider != nil {
		providerID = *query.Provider
		if !consts.IsValidProvider(providerID) {
			response.FailValidation(c, map[string]string{"provider": "provider 取值无效"})
			return
		}
	}

	end := util.Midnight(time.Now())
	start := end
	if query.EndDate != nil && *query.EndDate != "" {
		parsed, err := util.ParseDate(*query.EndDate)
		if err != nil {
			response.FailValidation(c, map[string]string{"end_date": "日期格式错误，应为 YYYY-MM-DD"})
			return
		}
		end = parsed
		start = parsed
	}
	if query.StartDate != nil && *query.StartDate != "" {
		parsed, err := util.ParseDate(*query.StartDate)
		if err != nil {
			response.FailValidation(c, map[string]string{"start_date": "日期格式错误，应为 YYYY-MM-DD"})
			return
		}
		start = parsed
	}

	metricType := ""
	if query.MetricType != nil {
		metricType = *query.MetricType
	}

	result, err := s.dailyStatSvc.Aggregate(c.Request.Context(), *query.UserID, providerID, start, end, metricType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
