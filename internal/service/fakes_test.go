package service

import (
	"StreamHub/internal/model"
	"StreamHub/internal/pkg/kafka"
	"context"
	"sync"
	"time"
)

type fakeVideoRepo struct {
	mu        sync.Mutex
	videos    []*model.Video
	queryErr  error
	lastSince time.Time
	lastCat   string
	queries   int
}

func (f *fakeVideoRepo) QueryPublishedPublicVideos(_ context.Context, since time.Time, category string) ([]*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	f.lastSince = since
	f.lastCat = category
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := make([]*model.Video, 0, len(f.videos))
	for _, v := range f.videos {
		if v == nil {
			out = append(out, nil)
			continue
		}
		if category != "" && v.Category != category {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeVideoRepo) GetVideosByIds(_ context.Context, ids []string) ([]*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]*model.Video, 0, len(ids))
	for _, v := range f.videos {
		if v == nil {
			continue
		}
		if _, ok := want[v.ID]; ok {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeTrendingRepo 失败时不修改已有数据，等价于事务回滚
type fakeTrendingRepo struct {
	mu             sync.Mutex
	partitions     map[string][]*model.TrendingVideo
	replaceErr     error
	replaceCalls   int
	writeCtxDetach bool
	listCalls      int
	// onList 在读取完成后、返回前调用，用于构造并发时序
	onList func()
}

func newFakeTrendingRepo() *fakeTrendingRepo {
	return &fakeTrendingRepo{partitions: make(map[string][]*model.TrendingVideo)}
}

func (f *fakeTrendingRepo) ReplacePartition(ctx context.Context, period, category string, entries []*model.TrendingVideo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls++
	f.writeCtxDetach = ctx.Done() == nil
	if f.replaceErr != nil {
		return f.replaceErr
	}
	stored := make([]*model.TrendingVideo, len(entries))
	for i, e := range entries {
		cp := *e
		stored[i] = &cp
	}
	f.partitions[period+":"+category] = stored
	return nil
}

func (f *fakeTrendingRepo) ListPartition(_ context.Context, period, category string, limit int) ([]*model.TrendingVideo, error) {
	f.mu.Lock()
	f.listCalls++
	entries := f.partitions[period+":"+category]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]*model.TrendingVideo, len(entries))
	for i, e := range entries {
		cp := *e
		out[i] = &cp
	}
	hook := f.onList
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakeTrendingRepo) setOnList(hook func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onList = hook
}

func (f *fakeTrendingRepo) partition(period, category string) []*model.TrendingVideo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.partitions[period+":"+category]
}

type fakeKV struct {
	mu      sync.Mutex
	values  map[string]string
	locks   map[string]interface{}
	lockErr error
	deleted []string
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: make(map[string]string), locks: make(map[string]interface{})}
}

func (f *fakeKV) GetValue(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

func (f *fakeKV) SetWithExpiration(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value.(string)
	return nil
}

func (f *fakeKV) DeleteKey(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeKV) TryLock(_ context.Context, key string, value interface{}, _ time.Duration, _ int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lockErr != nil {
		return false, f.lockErr
	}
	if _, held := f.locks[key]; held {
		return false, nil
	}
	f.locks[key] = value
	return true, nil
}

func (f *fakeKV) UnLock(_ context.Context, key string, value interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[key] == value {
		delete(f.locks, key)
	}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*kafka.TrendingUpdatedEvent
	err    error
}

func (f *fakePublisher) PublishTrendingUpdated(_ context.Context, event *kafka.TrendingUpdatedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) Close() error {
	return nil
}

// cancelingReader 在读取阶段触发取消，模拟请求超时
type cancelingReader struct {
	inner  CorpusReader
	cancel context.CancelFunc
}

func (r *cancelingReader) ReadCorpus(ctx context.Context, partition Partition, now time.Time) (*CorpusSnapshot, error) {
	snapshot, err := r.inner.ReadCorpus(ctx, partition, now)
	r.cancel()
	return snapshot, err
}
