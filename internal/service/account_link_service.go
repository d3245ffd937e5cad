package service

import (
	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/redis"
	"Pulseboard/internal/repository"
	"context"
	"strconv"
	"time"
)

type AccountLinkService interface {
	ListIntegrations(ctx context.Context, userID uint64) ([]*dto.IntegrationDTO, error)
	StoreOrUpdate(ctx context.Context, userID uint64, provider string, req *dto.StoreAccountLinkDTO) error
	Disconnect(ctx context.Context, userID uint64, provider string) error
}

type accountLinkServiceImpl struct {
	linkRepo repository.AccountLinkRepo
}

func NewAccountLinkService(linkRepo repository.AccountLinkRepo) AccountLinkService {
	return &accountLinkServiceImpl{linkRepo: linkRepo}
}

// ListIntegrations 设置页视图：四个服务商各一行，标记是否已绑定及最近采集时间
func (s *accountLinkServiceImpl) ListIntegrations(ctx context.Context, userID uint64) ([]*dto.IntegrationDTO, error) {
	links, err := s.linkRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	linked := make(map[string]*model.AccountLink, len(links))
	for _, l := range links {
		linked[l.Provider] = l
	}

	result := make([]*dto.IntegrationDTO, 0, len(consts.Providers))
	for _, p := range consts.Providers {
		item := &dto.IntegrationDTO{Provider: p}
		if link, ok := linked[p]; ok {
			item.Connected = true
			item.ExternalID = link.ExternalID
			linkedAt := link.CreatedAt.UTC().Format(time.RFC3339)
			item.LinkedAt = &linkedAt

			key := consts.CollectLastRunKey + strconv.FormatUint(userID, 10) + ":" + p
			if last, err := redis.GetValue(ctx, key); err == nil && last != "" {
				item.LastCollectedAt = &last
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *accountLinkServiceImpl) StoreOrUpdate(ctx context.Context, userID uint64, provider string, req *dto.StoreAccountLinkDTO) error {
	if !consts.IsValidProvider(provider) {
		return ErrProviderInvalid
	}
	link := &model.AccountLink{
		UserID:       userID,
		Provider:     provider,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		ExternalID:   req.ExternalID,
	}
	return s.linkRepo.StoreOrUpdate(ctx, link)
}

func (s *accountLinkServiceImpl) Disconnect(ctx context.Context, userID uint64, provider string) error {
	if !consts.IsValidProvider(provider) {
		return ErrProviderInvalid
	}
	existing, err := s.linkRepo.FindByUserAndProvider(ctx, userID, provider)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrAccountLinkNotFound
	}
	return s.linkRepo.Delete(ctx, userID, provider)
}
