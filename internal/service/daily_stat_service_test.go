package service

import (
	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/util"
	"Pulseboard/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMetric(t *testing.T, db *gorm.DB, userID uint64, provider string, day time.Time, metricType string, value float64, unit string) {
	t.Helper()
	ctx := context.Background()
	stat, err := repository.NewDailyStatRepo(db).FindOrCreate(ctx, userID, provider, day)
	require.NoError(t, err)
	require.NoError(t, repository.NewDailyStatMetricRepo(db).Upsert(ctx, &model.DailyStatMetric{
		DailyStatID: stat.ID,
		Type:        metricType,
		Value:       value,
		Unit:        util.PtrString(unit),
	}))
}

func TestAggregateFoldsByMetricType(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewDailyStatService(repository.NewDailyStatRepo(db))
	user := seedTestUser(t, db, "agg@test.local")

	d1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	seedMetric(t, db, user.ID, consts.ProviderWakaTime, d1, consts.MetricCodingTime, 10, "seconds")
	seedMetric(t, db, user.ID, consts.ProviderWakaTime, d2, consts.MetricCodingTime, 15, "seconds")

	result, err := svc.Aggregate(context.Background(), user.ID, consts.ProviderWakaTime, d1, d2, "")
	require.NoError(t, err)
	require.Contains(t, result, consts.MetricCodingTime)

	entry := result[consts.MetricCodingTime]
	assert.Equal(t, float64(25), entry.Total)
	assert.Equal(t, 2, entry.Count)
	assert.Equal(t, float64(12.5), entry.Average)
	assert.Equal(t, float64(15), entry.Latest)
	assert.False(t, entry.Snapshot)
	require.Len(t, entry.Values, 2)
	assert.Equal(t, "2025-03-01", entry.Values[0].Date)
	assert.Equal(t, float64(10), entry.Values[0].Value)
}

func TestAggregateEmptyRange(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewDailyStatService(repository.NewDailyStatRepo(db))
	user := seedTestUser(t, db, "empty@test.local")

	d1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	result, err := svc.Aggregate(context.Background(), user.ID, "", d1, d1, "")
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestAggregateMetricTypeFilter(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewDailyStatService(repository.NewDailyStatRepo(db))
	user := seedTestUser(t, db, "typefilter@test.local")

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	seedMetric(t, db, user.ID, consts.ProviderFitbit, day, consts.MetricSteps, 8000, "count")
	seedMetric(t, db, user.ID, consts.ProviderFitbit, day, consts.MetricCalories, 2100, "kcal")

	result, err := svc.Aggregate(context.Background(), user.ID, "", day, day, consts.MetricSteps)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Contains(t, result, consts.MetricSteps)

	// 过滤类型不命中时不产生该键
	result, err = svc.Aggregate(context.Background(), user.ID, "", day, day, consts.MetricCommits)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestAggregateSnapshotMetric(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewDailyStatService(repository.NewDailyStatRepo(db))
	user := seedTestUser(t, db, "snapshot@test.local")

	d1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	seedMetric(t, db, user.ID, consts.ProviderGitHub, d1, consts.MetricRepositories, 40, "count")
	seedMetric(t, db, user.ID, consts.ProviderGitHub, d2, consts.MetricRepositories, 42, "count")

	result, err := svc.Aggregate(context.Background(), user.ID, consts.ProviderGitHub, d1, d2, "")
	require.NoError(t, err)
	require.Contains(t, result, consts.MetricRepositories)

	entry := result[consts.MetricRepositories]
	// 快照型指标标记 Snapshot，消费方应读 Latest 而非 Total
	assert.True(t, entry.Snapshot)
	assert.Equal(t, float64(42), entry.Latest)
}

func TestAggregateValidation(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewDailyStatService(repository.NewDailyStatRepo(db))

	d1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.Aggregate(context.Background(), 1, "gitlab", d1, d2, "")
	assert.ErrorIs(t, err, ErrProviderInvalid)

	_, err = svc.Aggregate(context.Background(), 1, "", d2, d1, "")
	assert.ErrorIs(t, err, ErrDateRangeInvalid)
}

func TestAggregateServedFromCache(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewDailyStatService(repository.NewDailyStatRepo(db))
	user := seedTestUser(t, db, "cache@test.local")

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	seedMetric(t, db, user.ID, consts.ProviderWakaTime, day, consts.MetricCodingTime, 600, "seconds")

	first, err := svc.Aggregate(context.Background(), user.ID, consts.ProviderWakaTime, day, day, "")
	require.NoError(t, err)
	require.Contains(t, first, consts.MetricCodingTime)

	// 清空底层数据后同参数查询仍命中缓存
	require.NoError(t, db.Where("1 = 1").Delete(&model.DailyStatMetric{}).Error)

	second, err := svc.Aggregate(context.Background(), user.ID, consts.ProviderWakaTime, day, day, "")
	require.NoError(t, err)
	require.Contains(t, second, consts.MetricCodingTime)
	assert.Equal(t, first[consts.MetricCodingTime].Total, second[consts.MetricCodingTime].Total)
}

func TestListRejectsInvalidInput(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewDailyStatService(repository.NewDailyStatRepo(db))
	ctx := context.Background()

	_, err := svc.List(ctx, &dto.DailyStatListQuery{Provider: util.PtrString("gitlab")})
	assert.ErrorIs(t, err, ErrProviderInvalid)

	_, err = svc.List(ctx, &dto.DailyStatListQuery{Date: util.PtrString("03/01/2025")})
	assert.ErrorIs(t, err, ErrDateInvalid)

	_, err = svc.List(ctx, &dto.DailyStatListQuery{
		StartDate: util.PtrString("2025-03-05"),
		EndDate:   util.PtrString("2025-03-01"),
	})
	assert.ErrorIs(t, err, ErrDateRangeInvalid)
}

func TestListReturnsPagedDTOs(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewDailyStatService(repository.NewDailyStatRepo(db))
	user := seedTestUser(t, db, "page@test.local")

	for i := 0; i < 3; i++ {
		day := time.Date(2025, 3, 1+i, 0, 0, 0, 0, time.UTC)
		seedMetric(t, db, user.ID, consts.ProviderGitHub, day, consts.MetricCommits, float64(i+1), "count")
	}

	result, err := svc.List(context.Background(), &dto.DailyStatListQuery{
		UserID:  &user.ID,
		Page:    1,
		PerPage: 2,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.Total)
	assert.Equal(t, 2, result.PerPage)

	list, ok := result.List.([]*dto.DailyStatDTO)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03-03", list[0].Date)
	require.Len(t, list[0].Metrics, 1)
	assert.Equal(t, float64(3), list[0].Metrics[0].Value)
}
