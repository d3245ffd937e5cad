package repository

import (
	"Pulseboard/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountLinkRepo interface {
	FindByUserAndProvider(ctx context.Context, userID uint64, provider string) (*model.AccountLink, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.AccountLink, error)
	StoreOrUpdate(ctx context.Context, link *model.AccountLink) error
	Delete(ctx context.Context, userID uint64, provider string) error
}

type accountLinkRepoImpl struct {
	db *gorm.DB
}

func NewAccountLinkRepo(db *gorm.DB) AccountLinkRepo {
	return &accountLinkRepoImpl{db: db}
}

func (r *accountLinkRepoImpl) FindByUserAndProvider(ctx context.Context, userID uint64, provider string) (*model.AccountLink, error) {
	var link model.AccountLink
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *accountLinkRepoImpl) ListByUser(ctx context.Context, userID uint64) ([]*model.AccountLink, error) {
	links := make([]*model.AccountLink, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("provider ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// StoreOrUpdate 采用 Upsert 逻辑。如果 user_id + provider 已存在，则更新凭证与外部身份
func (r *accountLinkRepoImpl) StoreOrUpdate(ctx context.Context, link *model.AccountLink) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token",
			"refresh_token",
			"external_id",
			"token_expiry",
			"updated_at",
		}),
	}).Create(link).Error
}

func (r *accountLinkRepoImpl) Delete(ctx context.Context, userID uint64, provider string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		Delete(&model.AccountLink{}).Error
}
