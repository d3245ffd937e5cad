package dto

// StoreAccountLinkDTO 绑定/更新服务商凭证
type StoreAccountLinkDTO struct {
	AccessToken  string  `json:"access_token" binding:"required" validate:"min=1,max=512"`
	RefreshToken *string `json:"refresh_token"`
	ExternalID   *string `json:"external_id"`
}

// IntegrationDTO 设置页的单个服务商绑定状态
type IntegrationDTO struct {
	Provider        string  `json:"provider"`
	Connected       bool    `json:"connected"`
	ExternalID      *string `json:"external_id,omitempty"`
	LinkedAt        *string `json:"linked_at,omitempty"`
	LastCollectedAt *string `json:"last_collected_at,omitempty"`
}
