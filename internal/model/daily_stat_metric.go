package model

import "time"

// DailyStatMetric 归一化后的单个指标值，type 在所属 DailyStat 内唯一
type DailyStatMetric struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	DailyStatID uint64    `gorm:"not null;uniqueIndex:idx_stat_type" json:"daily_stat_id"`
	Type        string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_stat_type" json:"type"`
	Value       float64   `gorm:"type:decimal(15,2);not null" json:"value"`
	Unit        *string   `gorm:"type:varchar(32)" json:"unit,omitempty"`
	Meta        MetaMap   `gorm:"type:json" json:"meta,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DailyStatMetric) TableName() string {
	return "daily_stat_metrics"
}
