package repository

import (
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountLinkStoreOrUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountLinkRepo(db)
	ctx := context.Background()
	user := seedUser(t, db, "link@test.local")

	require.NoError(t, repo.StoreOrUpdate(ctx, &model.AccountLink{
		UserID:      user.ID,
		Provider:    consts.ProviderGitHub,
		AccessToken: "token-v1",
		ExternalID:  util.PtrString("octocat"),
	}))

	// 同一 (user, provider) 再次写入更新凭证而不是新增行
	require.NoError(t, repo.StoreOrUpdate(ctx, &model.AccountLink{
		UserID:       user.ID,
		Provider:     consts.ProviderGitHub,
		AccessToken:  "token-v2",
		RefreshToken: util.PtrString("refresh-v2"),
		ExternalID:   util.PtrString("octocat"),
	}))

	var count int64
	require.NoError(t, db.Model(&model.AccountLink{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	link, err := repo.FindByUserAndProvider(ctx, user.ID, consts.ProviderGitHub)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "token-v2", link.AccessToken)
	require.NotNil(t, link.RefreshToken)
	assert.Equal(t, "refresh-v2", *link.RefreshToken)
}

func TestAccountLinkFindAbsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountLinkRepo(db)

	link, err := repo.FindByUserAndProvider(context.Background(), 999, consts.ProviderFitbit)
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestAccountLinkListByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountLinkRepo(db)
	ctx := context.Background()
	user := seedUser(t, db, "multi@test.local")

	for _, p := range []string{consts.ProviderWakaTime, consts.ProviderGitHub} {
		require.NoError(t, repo.StoreOrUpdate(ctx, &model.AccountLink{
			UserID:      user.ID,
			Provider:    p,
			AccessToken: "token",
		}))
	}

	links, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, consts.ProviderGitHub, links[0].Provider)
	assert.Equal(t, consts.ProviderWakaTime, links[1].Provider)
}

func TestAccountLinkDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountLinkRepo(db)
	ctx := context.Background()
	user := seedUser(t, db, "unlink@test.local")

	require.NoError(t, repo.StoreOrUpdate(ctx, &model.AccountLink{
		UserID:      user.ID,
		Provider:    consts.ProviderLeetCode,
		AccessToken: "token",
	}))
	require.NoError(t, repo.Delete(ctx, user.ID, consts.ProviderLeetCode))

	link, err := repo.FindByUserAndProvider(ctx, user.ID, consts.ProviderLeetCode)
	require.NoError(t, err)
	assert.Nil(t, link)
}
