package repository

import (
	"Pulseboard/internal/model"
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DailyStatQuery 列表查询过滤条件
type DailyStatQuery struct {
	UserID     *uint64
	Provider   *string
	Date       *time.Time
	StartDate  *time.Time
	EndDate    *time.Time
	RecentDays int
	SortBy     string
	SortOrder  string
	Page       int
	PerPage    int
}

// 允许排序的列白名单，防止 order by 注入
var dailyStatSortColumns = map[string]string{
	"date":       "date",
	"provider":   "provider",
	"user_id":    "user_id",
	"created_at": "created_at",
}

type DailyStatRepo interface {
	FindOrCreate(ctx context.Context, userID uint64, provider string, date time.Time) (*model.DailyStat, error)
	GetByID(ctx context.Context, id uint64) (*model.DailyStat, error)
	List(ctx context.Context, q *DailyStatQuery) ([]*model.DailyStat, int64, error)
	ListRange(ctx context.Context, userID uint64, provider string, start, end time.Time) ([]*model.DailyStat, error)
	Delete(ctx context.Context, id uint64) error
}

type dailyStatRepoImpl struct {
	db *gorm.DB
}

func NewDailyStatRepo(db *gorm.DB) DailyStatRepo {
	return &dailyStatRepoImpl{db: db}
}

// FindOrCreate 定位或创建 (user, provider, date) 的统计行。
// 并发创建撞上唯一约束时不视为失败，回读已存在的行（幂等恢复）
func (r *dailyStatRepoImpl) FindOrCreate(ctx context.Context, userID uint64, provider string, date time.Time) (*model.DailyStat, error) {
	day := truncateToDay(date)

	existing, err := r.findByKey(ctx, userID, provider, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	stat := &model.DailyStat{
		UserID:   userID,
		Provider: provider,
		Date:     day,
	}
	err = r.db.WithContext(ctx).Create(stat).Error
	if err == nil {
		return stat, nil
	}
	if !isDuplicateKeyErr(err) {
		return nil, err
	}

	return r.findByKey(ctx, userID, provider, day)
}

func (r *dailyStatRepoImpl) findByKey(ctx context.Context, userID uint64, provider string, day time.Time) (*model.DailyStat, error) {
	var stat model.DailyStat
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ? AND date = ?", userID, provider, day).
		First(&stat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stat, nil
}

func (r *dailyStatRepoImpl) GetByID(ctx context.Context, id uint64) (*model.DailyStat, error) {
	var stat model.DailyStat
	err := r.db.WithContext(ctx).
		Preload("Metrics").
		Preload("User").
		First(&stat, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stat, nil
}

func (r *dailyStatRepoImpl) List(ctx context.Context, q *DailyStatQuery) ([]*model.DailyStat, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.DailyStat{})

	if q.UserID != nil {
		tx = tx.Where("user_id = ?", *q.UserID)
	}
	if q.Provider != nil {
		tx = tx.Where("provider = ?", *q.Provider)
	}
	if q.Date != nil {
		tx = tx.Where("date = ?", truncateToDay(*q.Date))
	}
	if q.StartDate != nil {
		tx = tx.Where("date >= ?", truncateToDay(*q.StartDate))
	}
	if q.EndDate != nil {
		tx = tx.Where("date <= ?", truncateToDay(*q.EndDate))
	}
	if q.RecentDays > 0 {
		since := truncateToDay(time.Now()).AddDate(0, 0, -q.RecentDays)
		tx = tx.Where("date > ?", since)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := dailyStatSortColumns[q.SortBy]
	if !ok {
		column = "date"
	}
	order := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		order = "ASC"
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	stats := make([]*model.DailyStat, 0)
	err := tx.Preload("Metrics").
		Order(column + " " + order).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&stats).Error
	if err != nil {
		return nil, 0, err
	}
	return stats, total, nil
}

// ListRange 查询闭区间 [start, end] 内的统计行，预加载指标，按日期升序。
// 聚合服务以此为唯一数据入口
func (r *dailyStatRepoImpl) ListRange(ctx context.Context, userID uint64, provider string, start, end time.Time) ([]*model.DailyStat, error) {
	stats := make([]*model.DailyStat, 0)
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date >= ? AND date <= ?", truncateToDay(start), truncateToDay(end))
	if provider != "" {
		tx = tx.Where("provider = ?", provider)
	}
	err := tx.Preload("Metrics").
		Order("date ASC").
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *dailyStatRepoImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Select("Metrics").
		Delete(&model.DailyStat{ID: id}).Error
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isDuplicateKeyErr 识别唯一约束冲突。gorm 开启 TranslateError 后为 ErrDuplicatedKey，
// 兜底匹配 MySQL 1062 错误文本
func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
