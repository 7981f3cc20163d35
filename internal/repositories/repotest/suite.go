// Package repotest общий набор проверок для реализаций репозиториев аккаунтов и ссылок.
// Каждое хранилище (память, SQLite, Postgres) запускает его из своих тестов.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/repositories"
)

// AccountRepository контракт репозитория аккаунтов.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

// LinkRepository контракт репозитория ссылок.
type LinkRepository interface {
	Create(ctx context.Context, link *models.ShortLink) error
	GetByShortCode(ctx context.Context, code string) (*models.ShortLink, error)
	GetByID(ctx context.Context, id string) (*models.ShortLink, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.ShortLink, error)
	Delete(ctx context.Context, id string) error
	IncrementClicks(ctx context.Context, code string) error
}

// Repos пара репозиториев поверх одного хранилища.
type Repos struct {
	Accounts AccountRepository
	Links    LinkRepository
}

// StorageSuite проверяет поведение репозиториев. NewRepos вызывается перед каждым тестом
// и должен возвращать пустое хранилище.
type StorageSuite struct {
	suite.Suite
	NewRepos func() Repos
	repos    Repos
	ctx      context.Context
}

func (s *StorageSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = s.NewRepos()
}

// NewAccount создает аккаунт в хранилище. Для Postgres ссылки требуют существующего владельца.
func (s *StorageSuite) NewAccount() *models.Account {
	account := &models.Account{
		ID:           gofakeit.UUID(),
		Email:        gofakeit.Email(),
		Username:     gofakeit.Username(),
		PasswordHash: gofakeit.LetterN(60),
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.repos.Accounts.Create(s.ctx, account))
	return account
}

func (s *StorageSuite) newLink(accountID, code string, createdAt time.Time) *models.ShortLink {
	return &models.ShortLink{
		ID:          gofakeit.UUID(),
		ShortCode:   code,
		OriginalURL: gofakeit.URL(),
		AccountID:   accountID,
		CreatedAt:   createdAt.UTC().Truncate(time.Microsecond),
	}
}

func (s *StorageSuite) TestAccount_CreateAndGet() {
	account := s.NewAccount()

	got, err := s.repos.Accounts.GetByEmail(s.ctx, account.Email)
	s.Require().NoError(err)
	s.Equal(account.ID, got.ID)
	s.Equal(account.PasswordHash, got.PasswordHash)

	_, err = s.repos.Accounts.GetByEmail(s.ctx, "missing@example.com")
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *StorageSuite) TestAccount_DuplicateEmail() {
	account := s.NewAccount()

	dup := *account
	dup.ID = gofakeit.UUID()
	dup.PasswordHash = "other"
	s.ErrorIs(s.repos.Accounts.Create(s.ctx, &dup), repositories.ErrDuplicateKey)

	got, err := s.repos.Accounts.GetByEmail(s.ctx, account.Email)
	s.Require().NoError(err)
	s.Equal(account.PasswordHash, got.PasswordHash, "existing account must stay untouched")
}

func (s *StorageSuite) TestLink_CreateAndGet() {
	account := s.NewAccount()
	link := s.newLink(account.ID, "abcdefg", time.Now())
	s.Require().NoError(s.repos.Links.Create(s.ctx, link))

	byCode, err := s.repos.Links.GetByShortCode(s.ctx, "abcdefg")
	s.Require().NoError(err)
	s.Equal(link.ID, byCode.ID)
	s.Equal(link.OriginalURL, byCode.OriginalURL)
	s.Equal(int64(0), byCode.ClickCount)
	s.True(link.CreatedAt.Equal(byCode.CreatedAt))

	byID, err := s.repos.Links.GetByID(s.ctx, link.ID)
	s.Require().NoError(err)
	s.Equal("abcdefg", byID.ShortCode)

	_, err = s.repos.Links.GetByShortCode(s.ctx, "missing")
	s.ErrorIs(err, repositories.ErrNotFound)
	_, err = s.repos.Links.GetByID(s.ctx, gofakeit.UUID())
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *StorageSuite) TestLink_DuplicateCode() {
	account := s.NewAccount()
	first := s.newLink(account.ID, "abcdefg", time.Now())
	s.Require().NoError(s.repos.Links.Create(s.ctx, first))

	second := s.newLink(account.ID, "abcdefg", time.Now())
	s.ErrorIs(s.repos.Links.Create(s.ctx, second), repositories.ErrDuplicateKey)

	got, err := s.repos.Links.GetByShortCode(s.ctx, "abcdefg")
	s.Require().NoError(err)
	s.Equal(first.ID, got.ID)
}

func (s *StorageSuite) TestLink_ConcurrentReserveSameCode() {
	account := s.NewAccount()
	const n = 10

	candidates := make([]*models.ShortLink, n)
	for i := range candidates {
		candidates[i] = s.newLink(account.ID, "samecod", time.Now())
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, link := range candidates {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.repos.Links.Create(s.ctx, link)
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		s.ErrorIs(err, repositories.ErrDuplicateKey)
	}
	s.Equal(1, ok, "exactly one reservation must win")
}

func (s *StorageSuite) TestLink_ListByAccount() {
	owner := s.NewAccount()
	other := s.NewAccount()
	base := time.Now().Add(-time.Hour)

	older := s.newLink(owner.ID, "aaaaaaa", base)
	newer := s.newLink(owner.ID, "bbbbbbb", base.Add(time.Minute))
	foreign := s.newLink(other.ID, "ccccccc", base.Add(2*time.Minute))
	for _, l := range []*models.ShortLink{older, newer, foreign} {
		s.Require().NoError(s.repos.Links.Create(s.ctx, l))
	}

	links, err := s.repos.Links.ListByAccount(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Require().Len(links, 2)
	s.Equal(newer.ID, links[0].ID)
	s.Equal(older.ID, links[1].ID)

	empty, err := s.repos.Links.ListByAccount(s.ctx, gofakeit.UUID())
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *StorageSuite) TestLink_Delete() {
	account := s.NewAccount()
	link := s.newLink(account.ID, "abcdefg", time.Now())
	s.Require().NoError(s.repos.Links.Create(s.ctx, link))

	s.Require().NoError(s.repos.Links.Delete(s.ctx, link.ID))
	s.ErrorIs(s.repos.Links.Delete(s.ctx, link.ID), repositories.ErrNotFound)

	_, err := s.repos.Links.GetByShortCode(s.ctx, "abcdefg")
	s.ErrorIs(err, repositories.ErrNotFound)
	s.ErrorIs(s.repos.Links.IncrementClicks(s.ctx, "abcdefg"), repositories.ErrNotFound)
}

func (s *StorageSuite) TestLink_ConcurrentIncrement() {
	account := s.NewAccount()
	link := s.newLink(account.ID, "abcdefg", time.Now())
	s.Require().NoError(s.repos.Links.Create(s.ctx, link))

	const k = 50
	var wg sync.WaitGroup
	for range k {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.repos.Links.IncrementClicks(s.ctx, "abcdefg"))
		}()
	}
	wg.Wait()

	got, err := s.repos.Links.GetByID(s.ctx, link.ID)
	s.Require().NoError(err)
	s.Equal(int64(k), got.ClickCount)

	s.ErrorIs(s.repos.Links.IncrementClicks(s.ctx, "missing"), repositories.ErrNotFound)
}
