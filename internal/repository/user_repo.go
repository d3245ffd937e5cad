package repository

import (
	"Pulseboard/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo interface {
	GetUserByID(ctx context.Context, userID uint64) (*model.User, error)
	ListUsersWithAccountLinks(ctx context.Context) ([]*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, userID uint64) error
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepoImpl{db: db}
}

func (r *userRepoImpl) GetUserByID(ctx context.Context, userID uint64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListUsersWithAccountLinks 查询至少绑定了一个服务商账号的用户，预加载绑定关系。
// 采集任务以此为入口枚举所有待轮询的 (用户, 服务商) 对
func (r *userRepoImpl) ListUsersWithAccountLinks(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Model(&model.AccountLink{}).Distinct("user_id")).
		Preload("AccountLinks").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// DeleteUser 删除用户并级联清理其绑定关系、统计数据及统计下的指标。
// 孙级指标行不依赖数据库外键，显式按统计行子查询删除
func (r *userRepoImpl) DeleteUser(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		statIDs := tx.Model(&model.DailyStat{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("daily_stat_id IN (?)", statIDs).
			Delete(&model.DailyStatMetric{}).Error; err != nil {
			return err
		}
		return tx.Select(clause.Associations).
			Delete(&model.User{ID: userID}).Error
	})
}
