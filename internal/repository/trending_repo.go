package repository

import (
	"StreamHub/internal/model"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const replaceBatchSize = 500

type TrendingRepo interface {
	// ReplacePartition 在同一事务内删除分区旧榜单并写入新榜单，写入失败时整体回滚
	ReplacePartition(ctx context.Context, period, category string, entries []*model.TrendingVideo) error
	ListPartition(ctx context.Context, period, category string, limit int) ([]*model.TrendingVideo, error)
}

type trendingRepoImpl struct {
	db *gorm.DB
}

func NewTrendingRepository(db *gorm.DB) TrendingRepo {
	return &trendingRepoImpl{db: db}
}

func (s *trendingRepoImpl) ReplacePartition(ctx context.Context, period, category string, entries []*model.TrendingVideo) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("period = ? AND category = ?", period, category).
			Delete(&model.TrendingVideo{}).Error
		if err != nil {
			return classifyStoreError(err)
		}
		if len(entries) == 0 {
			return nil
		}
		if err = tx.CreateInBatches(entries, replaceBatchSize).Error; err != nil {
			// 返回错误即回滚，上一轮榜单保持可见
			return fmt.Errorf("%w: %w", ErrPartialWrite, err)
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPartialWrite) || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	// 提交阶段失败
	return classifyStoreError(err)
}

func (s *trendingRepoImpl) ListPartition(ctx context.Context, period, category string, limit int) ([]*model.TrendingVideo, error) {
	entries := make([]*model.TrendingVideo, 0, limit)
	err := s.db.WithContext(ctx).
		Where("period = ? AND category = ?", period, category).
		Order("rank_no ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return entries, nil
}
