package repository

import (
	"StreamHub/internal/model"
	"StreamHub/internal/pkg/consts"
	"context"
	"time"

	"gorm.io/gorm"
)

type VideoRepo interface {
	// QueryPublishedPublicVideos 查询 since 之后创建的已发布公开视频，category 为空时不过滤分类
	QueryPublishedPublicVideos(ctx context.Context, since time.Time, category string) ([]*model.Video, error)
	GetVideosByIds(ctx context.Context, ids []string) ([]*model.Video, error)
}

type videoRepoImpl struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepo {
	return &videoRepoImpl{db: db}
}

func (s *videoRepoImpl) QueryPublishedPublicVideos(ctx context.Context, since time.Time, category string) ([]*model.Video, error) {
	videos := make([]*model.Video, 0)
	query := s.db.WithContext(ctx).
		Select("id", "category", "views", "likes", "created_at").
		Where("status = ? AND visibility = ?", consts.VideoStatusPublished, consts.VideoVisibilityPublic).
		Where("created_at >= ?", since)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("id ASC").Find(&videos).Error; err != nil {
		return nil, classifyStoreError(err)
	}
	return videos, nil
}

func (s *videoRepoImpl) GetVideosByIds(ctx context.Context, ids []string) ([]*model.Video, error) {
	videos := make([]*model.Video, 0, len(ids))
	if len(ids) == 0 {
		return videos, nil
	}
	err := s.db.WithContext(ctx).
		Select("id", "title", "thumbnail_url", "category", "status", "visibility", "views", "likes", "created_at").
		Where("id IN ?", ids).
		Find(&videos).Error
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return videos, nil
}
