package rediscache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/minurl/internal/db"
	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/repositories"
	"github.com/fsdevblog/minurl/internal/repositories/memstore"
)

// fakeClient Redis в памяти. down имитирует недоступный сервер.
type fakeClient struct {
	mu   sync.Mutex
	data map[string]string
	down bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: make(map[string]string)}
}

var errDown = errors.New("connection refused")

func (f *fakeClient) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return "", errDown
	}
	v, ok := f.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (f *fakeClient) Set(_ context.Context, key string, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errDown
	}
	f.data[key] = value
	return nil
}

func (f *fakeClient) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errDown
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeClient) Ping(context.Context) error {
	if f.down {
		return errDown
	}
	return nil
}

func (f *fakeClient) cached(code string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[cacheKey(code)]
	return ok
}

type CacheSuite struct {
	suite.Suite
	client  *fakeClient
	backend *memstore.ShortLinkRepo
	repo    *ShortLinkRepo
	link    *models.ShortLink
}

func (s *CacheSuite) SetupTest() {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	s.client = newFakeClient()
	s.backend = memstore.NewShortLinkRepo(db.NewMemStorage())
	s.repo = NewShortLinkRepo(s.backend, s.client, 0, logger)

	s.link = &models.ShortLink{
		ID:          "6f1c1b1e-7c1a-4a8e-9d55-3c2a1f1f0a01",
		ShortCode:   "abcdefg",
		OriginalURL: "https://example.com/x",
		AccountID:   "acc",
		CreatedAt:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.repo.Create(context.Background(), s.link))
}

func (s *CacheSuite) TestGetByShortCode_FillsCache() {
	ctx := context.Background()
	s.False(s.client.cached("abcdefg"))

	got, err := s.repo.GetByShortCode(ctx, "abcdefg")
	s.Require().NoError(err)
	s.Equal(s.link.OriginalURL, got.OriginalURL)
	s.True(s.client.cached("abcdefg"))

	// Вторая выборка из кеша, даже если основное хранилище уже не знает о ссылке.
	s.Require().NoError(s.backend.Delete(ctx, s.link.ID))
	got, err = s.repo.GetByShortCode(ctx, "abcdefg")
	s.Require().NoError(err)
	s.Equal(s.link.ID, got.ID)
}

func (s *CacheSuite) TestGetByShortCode_Miss() {
	_, err := s.repo.GetByShortCode(context.Background(), "missing")
	s.ErrorIs(err, repositories.ErrNotFound)
	s.False(s.client.cached("missing"))
}

func (s *CacheSuite) TestDelete_DropsKey() {
	ctx := context.Background()
	_, err := s.repo.GetByShortCode(ctx, "abcdefg")
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(ctx, s.link.ID))
	s.False(s.client.cached("abcdefg"))

	_, err = s.repo.GetByShortCode(ctx, "abcdefg")
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *CacheSuite) TestIncrementClicks_StaleEntryDropped() {
	ctx := context.Background()
	_, err := s.repo.GetByShortCode(ctx, "abcdefg")
	s.Require().NoError(err)

	// Ссылку удалили в обход декоратора, например другой экземпляр сервиса.
	s.Require().NoError(s.backend.Delete(ctx, s.link.ID))

	s.ErrorIs(s.repo.IncrementClicks(ctx, "abcdefg"), repositories.ErrNotFound)
	s.False(s.client.cached("abcdefg"))
}

func (s *CacheSuite) TestIncrementClicks_GoesToBackend() {
	ctx := context.Background()
	for range 3 {
		s.Require().NoError(s.repo.IncrementClicks(ctx, "abcdefg"))
	}
	got, err := s.repo.GetByID(ctx, s.link.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), got.ClickCount)
}

func (s *CacheSuite) TestRedisDown_FallsThrough() {
	s.client.down = true

	got, err := s.repo.GetByShortCode(context.Background(), "abcdefg")
	s.Require().NoError(err)
	s.Equal(s.link.OriginalURL, got.OriginalURL)
	s.Require().NoError(s.repo.Delete(context.Background(), s.link.ID))
}

func (s *CacheSuite) TestBrokenEntry() {
	s.client.data[cacheKey("abcdefg")] = "{not json"

	got, err := s.repo.GetByShortCode(context.Background(), "abcdefg")
	s.Require().NoError(err)
	s.Equal(s.link.ID, got.ID)
	s.True(s.client.cached("abcdefg"), "entry is rewritten from storage")
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}
