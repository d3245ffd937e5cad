package model

import "time"

// DailyStat 每个 (用户, 服务商, 日期) 唯一的一行统计聚合
type DailyStat struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_user_date_provider" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_user_date_provider" json:"date"`
	Provider  string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_user_date_provider" json:"provider"`
	Meta      MetaMap   `gorm:"type:json" json:"meta,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Metrics []DailyStatMetric `gorm:"foreignKey:DailyStatID;constraint:OnDelete:CASCADE" json:"metrics,omitempty"`
}

func (DailyStat) TableName() string {
	return "daily_stats"
}
