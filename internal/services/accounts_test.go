package services

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/fsdevblog/minurl/internal/db"
	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/repositories"
	"github.com/fsdevblog/minurl/internal/repositories/memstore"
	"github.com/fsdevblog/minurl/internal/services/mocks"
)

type AccountServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	repoMock *mocks.MockAccountRepository
	service  *AccountService
}

func (s *AccountServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repoMock = mocks.NewMockAccountRepository(s.ctrl)

	service, err := NewAccountService(s.repoMock, bcrypt.MinCost)
	s.Require().NoError(err)
	s.service = service
}

func (s *AccountServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AccountServiceSuite) TestNewAccountService_Cost() {
	_, err := NewAccountService(s.repoMock, bcrypt.MaxCost+1)
	s.Require().Error(err)

	service, err := NewAccountService(s.repoMock, 0)
	s.Require().NoError(err)
	s.Equal(bcrypt.DefaultCost, service.cost)
}

func (s *AccountServiceSuite) TestRegister() {
	password := gofakeit.Password(true, true, true, false, false, 12)

	var saved *models.Account
	s.repoMock.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, account *models.Account) error {
			saved = account
			return nil
		}).Times(1)

	account, err := s.service.Register(context.Background(), SignupParams{
		Username: "alice",
		Email:    "  Alice@Example.COM ",
		Password: password,
	})
	s.Require().NoError(err)
	s.Require().NotNil(saved)

	s.Equal("alice@example.com", account.Email)
	s.Equal("alice", account.Username)
	s.NotEmpty(account.ID)
	s.NotEqual(password, account.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)))
	s.False(account.CreatedAt.IsZero())
}

func (s *AccountServiceSuite) TestRegister_Errors() {
	tests := []struct {
		name    string
		params  SignupParams
		repoErr error
		wantErr error
	}{
		{
			name:    "duplicate email",
			params:  SignupParams{Username: "a", Email: "a@example.com", Password: "p1"},
			repoErr: repositories.ErrDuplicateKey,
			wantErr: ErrConflict,
		},
		{
			name:    "storage failure",
			params:  SignupParams{Username: "a", Email: "a@example.com", Password: "p1"},
			repoErr: repositories.ErrUnknown,
			wantErr: ErrUnknown,
		},
		{
			name:    "empty email",
			params:  SignupParams{Username: "a", Email: " ", Password: "p1"},
			wantErr: ErrValidation,
		},
		{
			name:    "empty password",
			params:  SignupParams{Username: "a", Email: "a@example.com"},
			wantErr: ErrValidation,
		},
		{
			name:    "password over 72 bytes",
			params:  SignupParams{Username: "a", Email: "a@example.com", Password: gofakeit.LetterN(73)},
			wantErr: ErrValidation,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			if tt.repoErr != nil {
				s.repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(tt.repoErr).Times(1)
			}
			_, err := s.service.Register(context.Background(), tt.params)
			s.ErrorIs(err, tt.wantErr)
		})
	}
}

func (s *AccountServiceSuite) TestVerify() {
	hash, err := bcrypt.GenerateFromPassword([]byte("p1"), bcrypt.MinCost)
	s.Require().NoError(err)
	stored := &models.Account{ID: gofakeit.UUID(), Email: "a@example.com", PasswordHash: string(hash)}

	s.repoMock.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(stored, nil).AnyTimes()
	s.repoMock.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").
		Return(nil, repositories.ErrNotFound).AnyTimes()
	s.repoMock.EXPECT().GetByEmail(gomock.Any(), "broken@example.com").
		Return(nil, repositories.ErrUnknown).AnyTimes()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", email: "A@example.com ", password: "p1"},
		{name: "wrong password", email: "a@example.com", password: "p2", wantErr: ErrUnauthorized},
		{name: "unknown email", email: "nobody@example.com", password: "p1", wantErr: ErrUnauthorized},
		{name: "storage failure", email: "broken@example.com", password: "p1", wantErr: ErrUnknown},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			account, vErr := s.service.Verify(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				s.ErrorIs(vErr, tt.wantErr)
				s.Nil(account)
				return
			}
			s.Require().NoError(vErr)
			s.Equal(stored.ID, account.ID)
		})
	}
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

// TestAccountService_RegisterTwiceKeepsFirst повторная регистрация не перезаписывает пароль.
func TestAccountService_RegisterTwiceKeepsFirst(t *testing.T) {
	repo := memstore.NewAccountRepo(db.NewMemStorage())
	service, err := NewAccountService(repo, bcrypt.MinCost)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := service.Register(ctx, SignupParams{Username: "a", Email: "a@example.com", Password: "p1"})
	require.NoError(t, err)

	_, err = service.Register(ctx, SignupParams{Username: "b", Email: "A@example.com", Password: "p2"})
	require.ErrorIs(t, err, ErrConflict)

	account, err := service.Verify(ctx, "a@example.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, account.ID)

	_, err = service.Verify(ctx, "a@example.com", "p2")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
