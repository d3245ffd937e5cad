package dto

// DailyStatListQuery /daily-stats 列表过滤参数
type DailyStatListQuery struct {
	UserID     *uint64 `form:"user_id"`
	Provider   *string `form:"provider"`
	Date       *string `form:"date"`
	StartDate  *string `form:"start_date"`
	EndDate    *string `form:"end_date"`
	RecentDays int     `form:"recent_days"`
	SortBy     string  `form:"sort_by"`
	SortOrder  string  `form:"sort_order"`
	Page       int     `form:"page"`
	PerPage    int     `form:"per_page"`
}

// AggregateQuery /daily-stats-aggregated 查询参数，user_id 必填
type AggregateQuery struct {
	UserID     *uint64 `form:"user_id"`
	Provider   *string `form:"provider"`
	StartDate  *string `form:"start_date"`
	EndDate    *string `form:"end_date"`
	MetricType *string `form:"metric_type"`
}

// DailyStatDTO 带嵌套指标的统计行
type DailyStatDTO struct {
	ID       uint64         `json:"id"`
	UserID   uint64         `json:"user_id"`
	Date     string         `json:"date"`
	Provider string         `json:"provider"`
	Meta     map[string]any `json:"meta,omitempty"`
	User     *UserDTO       `json:"user,omitempty"`
	Metrics  []*MetricDTO   `json:"metrics"`
}

type UserDTO struct {
	ID       uint64 `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// MetricValuePoint 区间内某一天的原始值，快照型指标由调用方自行取最新值
type MetricValuePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// MetricAggregateDTO 单个指标类型的折叠结果
type MetricAggregateDTO struct {
	Total    float64             `json:"total"`
	Count    int                 `json:"count"`
	Average  float64             `json:"average"`
	Unit     *string             `json:"unit,omitempty"`
	Latest   float64             `json:"latest"`
	Snapshot bool                `json:"snapshot"`
	Values   []*MetricValuePoint `json:"values"`
}
