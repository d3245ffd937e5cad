package repository

import (
	"Pulseboard/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MetricQuery 指标列表过滤条件
type MetricQuery struct {
	DailyStatID *uint64
	Type        *string
	Unit        *string
	MinValue    *float64
	MaxValue    *float64
	Page        int
	PerPage     int
}

// MetricTypeSummary 按类型分组的聚合行
type MetricTypeSummary struct {
	Type    string  `json:"type"`
	Count   int64   `json:"count"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Unit    *string `json:"unit,omitempty"`
}

type DailyStatMetricRepo interface {
	Upsert(ctx context.Context, metric *model.DailyStatMetric) error
	GetByID(ctx context.Context, id uint64) (*model.DailyStatMetric, error)
	List(ctx context.Context, q *MetricQuery) ([]*model.DailyStatMetric, int64, error)
	GroupedByType(ctx context.Context, q *MetricQuery) ([]*MetricTypeSummary, error)
}

type dailyStatMetricRepoImpl struct {
	db *gorm.DB
}

func NewDailyStatMetricRepo(db *gorm.DB) DailyStatMetricRepo {
	return &dailyStatMetricRepoImpl{db: db}
}

// Upsert 采用 Upsert 逻辑。同一 daily_stat_id + type 只保留一行，重复写入覆盖数值
func (r *dailyStatMetricRepoImpl) Upsert(ctx context.Context, metric *model.DailyStatMetric) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "daily_stat_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value",
			"unit",
			"meta",
			"updated_at",
		}),
	}).Create(metric).Error
}

func (r *dailyStatMetricRepoImpl) GetByID(ctx context.Context, id uint64) (*model.DailyStatMetric, error) {
	var metric model.DailyStatMetric
	err := r.db.WithContext(ctx).First(&metric, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metric, nil
}

func (r *dailyStatMetricRepoImpl) List(ctx context.Context, q *MetricQuery) ([]*model.DailyStatMetric, int64, error) {
	tx := r.applyFilters(r.db.WithContext(ctx).Model(&model.DailyStatMetric{}), q)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	metrics := make([]*model.DailyStatMetric, 0)
	err := tx.Order("id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&metrics).Error
	if err != nil {
		return nil, 0, err
	}
	return metrics, total, nil
}

// GroupedByType 按指标类型返回 count/total/average/min/max
func (r *dailyStatMetricRepoImpl) GroupedByType(ctx context.Context, q *MetricQuery) ([]*MetricTypeSummary, error) {
	summaries := make([]*MetricTypeSummary, 0)
	tx := r.applyFilters(r.db.WithContext(ctx).Model(&model.DailyStatMetric{}), q)
	err := tx.Select(
		"type",
		"COUNT(*) AS count",
		"SUM(value) AS total",
		"AVG(value) AS average",
		"MIN(value) AS min",
		"MAX(value) AS max",
		"MAX(unit) AS unit",
	).
		Group("type").
		Order("type ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *dailyStatMetricRepoImpl) applyFilters(tx *gorm.DB, q *MetricQuery) *gorm.DB {
	if q.DailyStatID != nil {
		tx = tx.Where("daily_stat_id = ?", *q.DailyStatID)
	}
	if q.Type != nil {
		tx = tx.Where("type = ?", *q.Type)
	}
	if q.Unit != nil {
		tx = tx.Where("unit = ?", *q.Unit)
	}
	if q.MinValue != nil {
		tx = tx.Where("value >= ?", *q.MinValue)
	}
	if q.MaxValue != nil {
		tx = tx.Where("value <= ?", *q.MaxValue)
	}
	return tx
}
