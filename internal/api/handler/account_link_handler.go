package handler

import (
	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/pkg/response"
	"Pulseboard/internal/service"

	"github.com/gin-gonic/gin"
)

type AccountLinkHandler struct {
	accountLinkSvc service.AccountLinkService
}

func NewAccountLinkHandler(accountLinkSvc service.AccountLinkService) *AccountLinkHandler {
	return &AccountLinkHandler{
		accountLinkSvc: accountLinkSvc,
	}
}

// ListIntegrations GET /integrations 当前用户各服务商的绑定状态
func (s *AccountLinkHandler) ListIntegrations(c *gin.Context) {
	userID := c.GetUint64("user_id")
	result, err := s.accountLinkSvc.ListIntegrations(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Store PUT /integrations/:provider 保存或更新服务商凭证
func (s *AccountLinkHandler) Store(c *gin.Context) {
	userID := c.GetUint64("user_id")
	providerID := c.Param("provider")

	var req dto.StoreAccountLinkDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.accountLinkSvc.StoreOrUpdate(c.Request.Context(), userID, providerID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Disconnect DELETE /integrations/:provider 解绑服务商，采集任务下个周期起跳过该对
func (s *AccountLinkHandler) Disconnect(c *gin.Context) {
	userID := c.GetUint64("user_id")
	providerID := c.Param("provider")

	if err := s.accountLinkSvc.Disconnect(c.Request.Context(), userID, providerID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
