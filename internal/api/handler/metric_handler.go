package handler

import (
	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/pkg/response"
	"Pulseboard/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MetricHandler struct {
	metricSvc service.DailyStatMetricService
}

func NewMetricHandler(metricSvc service.DailyStatMetricService) *MetricHandler {
	return &MetricHandler{
		metricSvc: metricSvc,
	}
}

// List GET /daily-stat-metrics 指标列表，支持按统计行、类型、单位、数值区间过滤
func (s *MetricHandler) List(c *gin.Context) {
	var query dto.MetricListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.metricSvc.List(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetByID GET /daily-stat-metrics/:id
func (s *MetricHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	metric, err := s.metricSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, metric)
}

// GroupedByType GET /daily-stat-metrics-by-type 按类型分组的聚合视图
func (s *MetricHandler) GroupedByType(c *gin.Context) {
	var query dto.MetricListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.metricSvc.GroupedByType(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
