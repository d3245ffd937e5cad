package model

import "time"

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Nickname  string    `gorm:"type:varchar(64);not null" json:"nickname"`
	Email     string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	Timezone  string    `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AccountLinks []AccountLink `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"account_links,omitempty"`
	DailyStats   []DailyStat   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"daily_stats,omitempty"`
}

func (User) TableName() string {
	return "users"
}
