package dto

// MetricListQuery /daily-stat-metrics 列表过滤参数
type MetricListQuery struct {
	DailyStatID *uint64  `form:"daily_stat_id"`
	Type        *string  `form:"type"`
	Unit        *string  `form:"unit"`
	MinValue    *float64 `form:"min_value"`
	MaxValue    *float64 `form:"max_value"`
	Page        int      `form:"page"`
	PerPage     int      `form:"per_page"`
}

// MetricDTO 单条指标
type MetricDTO struct {
	ID          uint64         `json:"id"`
	DailyStatID uint64         `json:"daily_stat_id"`
	Type        string         `json:"type"`
	Value       float64        `json:"value"`
	Unit        *string        `json:"unit,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
}
