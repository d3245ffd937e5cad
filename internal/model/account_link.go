package model

import "time"

// AccountLink 用户与外部服务商账号的绑定关系，保存轮询所需的凭证
type AccountLink struct {
	ID           uint64     `gorm:"primaryKey" json:"id"`
	UserID       uint64     `gorm:"not null;uniqueIndex:idx_link_user_provider" json:"user_id"`
	Provider     string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_link_user_provider" json:"provider"`
	AccessToken  string     `gorm:"type:varchar(512);not null" json:"-"`
	RefreshToken *string    `gorm:"type:varchar(512)" json:"-"`
	ExternalID   *string    `gorm:"type:varchar(128)" json:"external_id,omitempty"` // 外部账号标识，如 GitHub login
	TokenExpiry  *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (AccountLink) TableName() string {
	return "account_links"
}
