package repository

import (
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersWithAccountLinks(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepo(db)
	linkRepo := NewAccountLinkRepo(db)
	ctx := context.Background()

	linked := seedUser(t, db, "linked@test.local")
	seedUser(t, db, "lonely@test.local")

	require.NoError(t, linkRepo.StoreOrUpdate(ctx, &model.AccountLink{
		UserID:      linked.ID,
		Provider:    consts.ProviderGitHub,
		AccessToken: "token",
	}))
	require.NoError(t, linkRepo.StoreOrUpdate(ctx, &model.AccountLink{
		UserID:      linked.ID,
		Provider:    consts.ProviderFitbit,
		AccessToken: "token",
	}))

	users, err := userRepo.ListUsersWithAccountLinks(ctx)
	require.NoError(t, err)
	// 未绑定任何账号的用户不进入采集名单
	require.Len(t, users, 1)
	assert.Equal(t, linked.ID, users[0].ID)
	assert.Len(t, users[0].AccountLinks, 2)
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepo(db)
	linkRepo := NewAccountLinkRepo(db)
	statRepo := NewDailyStatRepo(db)
	ctx := context.Background()

	metricRepo := NewDailyStatMetricRepo(db)

	user := seedUser(t, db, "cascade@test.local")
	require.NoError(t, linkRepo.StoreOrUpdate(ctx, &model.AccountLink{
		UserID:      user.ID,
		Provider:    consts.ProviderGitHub,
		AccessToken: "token",
	}))
	stat, err := statRepo.FindOrCreate(ctx, user.ID, consts.ProviderGitHub, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, metricRepo.Upsert(ctx, &model.DailyStatMetric{
		DailyStatID: stat.ID,
		Type:        consts.MetricCommits,
		Value:       3,
	}))

	// 不受影响的旁观用户，确认删除范围不扩散
	other := seedUser(t, db, "bystander@test.local")
	otherStat, err := statRepo.FindOrCreate(ctx, other.ID, consts.ProviderGitHub, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, metricRepo.Upsert(ctx, &model.DailyStatMetric{
		DailyStatID: otherStat.ID,
		Type:        consts.MetricCommits,
		Value:       7,
	}))

	require.NoError(t, userRepo.DeleteUser(ctx, user.ID))

	got, err := userRepo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var links, stats, metrics int64
	require.NoError(t, db.Model(&model.AccountLink{}).Where("user_id = ?", user.ID).Count(&links).Error)
	require.NoError(t, db.Model(&model.DailyStat{}).Where("user_id = ?", user.ID).Count(&stats).Error)
	require.NoError(t, db.Model(&model.DailyStatMetric{}).Where("daily_stat_id = ?", stat.ID).Count(&metrics).Error)
	assert.EqualValues(t, 0, links)
	assert.EqualValues(t, 0, stats)
	// 统计行下挂的指标随用户删除一并清理
	assert.EqualValues(t, 0, metrics)

	var otherMetrics int64
	require.NoError(t, db.Model(&model.DailyStatMetric{}).Where("daily_stat_id = ?", otherStat.ID).Count(&otherMetrics).Error)
	assert.EqualValues(t, 1, otherMetrics)
}
