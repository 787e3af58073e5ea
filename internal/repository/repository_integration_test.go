package repository_test

import (
	"StreamHub/internal/model"
	"StreamHub/internal/pkg/consts"
	"StreamHub/internal/pkg/database"
	"StreamHub/internal/repository"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestTrendingRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	db := startMySQL(ctx, t)
	require.NoError(t, database.Migrate(db))

	now := time.Now().UTC().Truncate(time.Second)
	videos := []*model.Video{
		{ID: "00000000-0000-0000-0000-00000000000a", Title: "A", Category: "music", Status: consts.VideoStatusPublished, Visibility: consts.VideoVisibilityPublic, Views: 1000, Likes: 50, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "00000000-0000-0000-0000-00000000000b", Title: "B", Category: "game", Status: consts.VideoStatusPublished, Visibility: consts.VideoVisibilityPublic, Views: 500, Likes: 200, CreatedAt: now.Add(-time.Hour)},
		{ID: "00000000-0000-0000-0000-00000000000c", Title: "C", Category: "music", Status: "draft", Visibility: consts.VideoVisibilityPublic, CreatedAt: now.Add(-time.Hour)},
		{ID: "00000000-0000-0000-0000-00000000000d", Title: "D", Category: "music", Status: consts.VideoStatusPublished, Visibility: "private", CreatedAt: now.Add(-time.Hour)},
		{ID: "00000000-0000-0000-0000-00000000000e", Title: "E", Category: "music", Status: consts.VideoStatusPublished, Visibility: consts.VideoVisibilityPublic, CreatedAt: now.Add(-30 * 24 * time.Hour)},
	}
	require.NoError(t, db.Create(&videos).Error)

	videoRepo := repository.NewVideoRepository(db)
	trendingRepo := repository.NewTrendingRepository(db)

	t.Run("query corpus", func(t *testing.T) {
		got, err := videoRepo.QueryPublishedPublicVideos(ctx, now.Add(-7*24*time.Hour), "")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, videos[0].ID, got[0].ID)
		assert.Equal(t, int64(1000), got[0].Views)

		got, err = videoRepo.QueryPublishedPublicVideos(ctx, now.Add(-7*24*time.Hour), "game")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, videos[1].ID, got[0].ID)

		byIDs, err := videoRepo.GetVideosByIds(ctx, []string{videos[1].ID, videos[2].ID})
		require.NoError(t, err)
		assert.Len(t, byIDs, 2)

		empty, err := videoRepo.GetVideosByIds(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	entry := func(videoID string, rank int, score float64) *model.TrendingVideo {
		return &model.TrendingVideo{VideoID: videoID, Rank: rank, Score: score, Period: "daily", ComputedAt: now}
	}

	t.Run("replace partition", func(t *testing.T) {
		require.NoError(t, trendingRepo.ReplacePartition(ctx, "daily", "", []*model.TrendingVideo{
			entry(videos[1].ID, 1, 2300),
			entry(videos[0].ID, 2, 550),
			entry(videos[4].ID, 3, 1),
		}))

		got, err := trendingRepo.ListPartition(ctx, "daily", "", 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, videos[1].ID, got[0].VideoID)
		assert.Equal(t, 1, got[0].Rank)
		assert.Equal(t, 3, got[2].Rank)

		// 第二次替换不残留旧条目
		require.NoError(t, trendingRepo.ReplacePartition(ctx, "daily", "", []*model.TrendingVideo{
			entry(videos[0].ID, 1, 600),
			entry(videos[1].ID, 2, 500),
		}))
		got, err = trendingRepo.ListPartition(ctx, "daily", "", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, videos[0].ID, got[0].VideoID)

		limited, err := trendingRepo.ListPartition(ctx, "daily", "", 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)

		other, err := trendingRepo.ListPartition(ctx, "weekly", "", 10)
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("failed insert rolls back", func(t *testing.T) {
		err := trendingRepo.ReplacePartition(ctx, "daily", "", []*model.TrendingVideo{
			entry(videos[1].ID, 1, 10),
			entry(videos[0].ID, 1, 9),
		})
		assert.ErrorIs(t, err, repository.ErrPartialWrite)

		got, err := trendingRepo.ListPartition(ctx, "daily", "", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, videos[0].ID, got[0].VideoID)
		assert.InDelta(t, 600.0, got[0].Score, 1e-9)
	})

	t.Run("empty replace clears partition", func(t *testing.T) {
		require.NoError(t, trendingRepo.ReplacePartition(ctx, "daily", "", nil))
		got, err := trendingRepo.ListPartition(ctx, "daily", "", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func startMySQL(ctx context.Context, t *testing.T) *gorm.DB {
	t.Helper()

	dsnFor := func(host string, port string) string {
		return fmt.Sprintf("root:streamhub@tcp(%s:%s)/streamhub?charset=utf8mb4&parseTime=True&loc=UTC", host, port)
	}

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "streamhub",
			"MYSQL_DATABASE":      "streamhub",
		},
		WaitingFor: wait.ForSQL("3306/tcp", "mysql", func(host string, port nat.Port) string {
			return dsnFor(host, port.Port())
		}).WithStartupTimeout(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("skip repository integration test: cannot start mysql container: %v", err)
	}
	t.Cleanup(func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)

	db, err := gorm.Open(mysql.Open(dsnFor(host, port.Port())), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	return db
}
