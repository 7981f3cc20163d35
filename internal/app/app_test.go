package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fsdevblog/minurl/internal/codes"
	"github.com/fsdevblog/minurl/internal/config"
)

type authResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Message     string `json:"message"`
}

type linkResponse struct {
	ID          string `json:"id"`
	ShortCode   string `json:"short_code"`
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	ClickCount  int64  `json:"click_count"`
}

type listResponse struct {
	URLs []linkResponse `json:"urls"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// AppSuite прогоняет сценарий клиента против настоящего http сервера.
type AppSuite struct {
	suite.Suite
	conf   config.Config
	app    *App
	server *httptest.Server
	client *resty.Client
}

func (s *AppSuite) SetupTest() {
	sqlLogger := logrus.New()
	sqlLogger.SetLevel(logrus.ErrorLevel)

	a, err := New(s.conf, WithLogger(zap.NewNop()), WithSQLLogger(sqlLogger))
	s.Require().NoError(err)
	s.app = a
	s.server = httptest.NewServer(a.Handler())
	s.client = resty.New().
		SetBaseURL(s.server.URL).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
}

func (s *AppSuite) TearDownTest() {
	s.server.Close()
	s.NoError(s.app.Close())
}

func (s *AppSuite) signup(username, email, password string) *resty.Response {
	res, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"username": username, "email": email, "password": password}).
		Post("/auth/signup")
	s.Require().NoError(err)
	return res
}

func (s *AppSuite) login(email, password string) (string, *resty.Response) {
	var auth authResponse
	res, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&auth).
		Post("/auth/login")
	s.Require().NoError(err)
	return auth.AccessToken, res
}

func (s *AppSuite) authed(token string) *resty.Request {
	return s.client.R().SetAuthToken(token).SetHeader("Content-Type", "application/json")
}

func (s *AppSuite) list(token string) []linkResponse {
	var list listResponse
	res, err := s.authed(token).SetResult(&list).Get("/url/list")
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, res.StatusCode(), res.String())
	return list.URLs
}

func (s *AppSuite) TestScenario() {
	res := s.signup("a", "a@example.com", "secret-p1")
	s.Require().Equal(http.StatusCreated, res.StatusCode(), res.String())

	token, res := s.login("a@example.com", "secret-p1")
	s.Require().Equal(http.StatusOK, res.StatusCode(), res.String())
	s.Require().NotEmpty(token)

	var link linkResponse
	res, err := s.authed(token).
		SetBody(map[string]string{"original_url": "https://example.com/x"}).
		SetResult(&link).
		Post("/url/shorten")
	s.Require().NoError(err)
	s.Require().Equal(http.StatusCreated, res.StatusCode(), res.String())
	s.Len(link.ShortCode, s.conf.CodeLength)
	for _, r := range link.ShortCode {
		s.True(strings.ContainsRune(codes.Alphabet, r), "symbol %q is outside the alphabet", r)
	}
	s.Equal(s.server.URL+"/url/"+link.ShortCode, link.ShortURL)

	res, err = s.client.R().Get("/url/" + link.ShortCode)
	s.Require().NoError(err)
	s.Equal(http.StatusTemporaryRedirect, res.StatusCode())
	s.Equal("https://example.com/x", res.Header().Get("Location"))

	links := s.list(token)
	s.Require().Len(links, 1)
	s.Equal(link.ID, links[0].ID)
	s.Equal(int64(1), links[0].ClickCount)

	res, err = s.authed(token).Delete("/url/" + link.ID)
	s.Require().NoError(err)
	s.Equal(http.StatusNoContent, res.StatusCode())
	s.Empty(s.list(token))

	res, err = s.client.R().Get("/url/" + link.ShortCode)
	s.Require().NoError(err)
	s.Equal(http.StatusNotFound, res.StatusCode())
}

func (s *AppSuite) TestRedirectKeepsURLAsSubmitted() {
	s.Require().Equal(http.StatusCreated, s.signup("a", "a@example.com", "secret-p1").StatusCode())
	token, _ := s.login("a@example.com", "secret-p1")

	const target = "https://example.com/docs/page#section-2"
	var link linkResponse
	res, err := s.authed(token).
		SetBody(map[string]string{"original_url": target}).
		SetResult(&link).
		Post("/url/shorten")
	s.Require().NoError(err)
	s.Require().Equal(http.StatusCreated, res.StatusCode(), res.String())
	s.Equal(target, link.OriginalURL)

	res, err = s.client.R().Get("/url/" + link.ShortCode)
	s.Require().NoError(err)
	s.Equal(http.StatusTemporaryRedirect, res.StatusCode())
	s.Equal(target, res.Header().Get("Location"))
}

func (s *AppSuite) TestAuthErrors() {
	s.Require().Equal(http.StatusCreated, s.signup("a", "a@example.com", "secret-p1").StatusCode())

	var msg messageResponse
	res, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"username": "a2", "email": "A@Example.com", "password": "secret-p2"}).
		SetError(&msg).
		Post("/auth/signup")
	s.Require().NoError(err)
	s.Equal(http.StatusConflict, res.StatusCode())
	s.NotEmpty(msg.Message)

	_, wrongPass := s.login("a@example.com", "secret-p2")
	_, unknown := s.login("nobody@example.com", "secret-p1")
	s.Equal(http.StatusUnauthorized, wrongPass.StatusCode())
	s.Equal(http.StatusUnauthorized, unknown.StatusCode())
	s.Equal(wrongPass.String(), unknown.String())

	res, err = s.client.R().Get("/url/list")
	s.Require().NoError(err)
	s.Equal(http.StatusUnauthorized, res.StatusCode())
}

func (s *AppSuite) TestOwnership() {
	s.Require().Equal(http.StatusCreated, s.signup("a", "a@example.com", "secret-p1").StatusCode())
	s.Require().Equal(http.StatusCreated, s.signup("b", "b@example.com", "secret-p1").StatusCode())
	tokenA, _ := s.login("a@example.com", "secret-p1")
	tokenB, _ := s.login("b@example.com", "secret-p1")

	var link linkResponse
	res, err := s.authed(tokenA).
		SetBody(map[string]string{"original_url": "https://example.com/a"}).
		SetResult(&link).
		Post("/url/shorten")
	s.Require().NoError(err)
	s.Require().Equal(http.StatusCreated, res.StatusCode())

	s.Empty(s.list(tokenB))

	res, err = s.authed(tokenB).Delete("/url/" + link.ID)
	s.Require().NoError(err)
	s.Equal(http.StatusForbidden, res.StatusCode())

	res, err = s.authed(tokenB).Get("/url/stats/" + link.ID)
	s.Require().NoError(err)
	s.Equal(http.StatusForbidden, res.StatusCode())

	res, err = s.authed(tokenA).Get("/url/stats/" + link.ID)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode())

	s.Len(s.list(tokenA), 1)
}

func (s *AppSuite) TestConcurrentRedirects() {
	s.Require().Equal(http.StatusCreated, s.signup("a", "a@example.com", "secret-p1").StatusCode())
	token, _ := s.login("a@example.com", "secret-p1")

	var link linkResponse
	_, err := s.authed(token).
		SetBody(map[string]string{"original_url": "https://example.com/hot"}).
		SetResult(&link).
		Post("/url/shorten")
	s.Require().NoError(err)

	const k = 50
	var wg sync.WaitGroup
	for range k {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, getErr := s.client.R().Get("/url/" + link.ShortCode)
			if s.NoError(getErr) {
				s.Equal(http.StatusTemporaryRedirect, res.StatusCode())
			}
		}()
	}
	wg.Wait()

	links := s.list(token)
	s.Require().Len(links, 1)
	s.Equal(int64(k), links[0].ClickCount)
}

func testConfig() config.Config {
	return config.Config{
		ServerAddress:  "127.0.0.1:0",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		TokenIssuer:    config.DefaultTokenIssuer,
		CodeLength:     config.DefaultCodeLength,
		CodeMaxRetries: config.DefaultCodeMaxRetries,
		BcryptCost:     bcrypt.MinCost,
		CORSOrigins:    []string{"*"},
	}
}

func TestAppSuite_InMemory(t *testing.T) {
	suite.Run(t, &AppSuite{conf: testConfig()})
}

func TestAppSuite_SQLite(t *testing.T) {
	conf := testConfig()
	// Каждый тест получает свой файл, так что состояние между тестами не переносится.
	s := &sqliteSuite{AppSuite: AppSuite{conf: conf}, dir: t.TempDir()}
	suite.Run(t, s)
}

type sqliteSuite struct {
	AppSuite
	dir string
	n   int
}

func (s *sqliteSuite) SetupTest() {
	s.n++
	s.conf.SQLitePath = filepath.Join(s.dir, fmt.Sprintf("minurl-%d.db", s.n))
	s.AppSuite.SetupTest()
}

func TestNew_InvalidConfig(t *testing.T) {
	conf := testConfig()
	conf.JWTSecret = ""
	_, err := New(conf, WithLogger(zap.NewNop()))
	require.Error(t, err)

	conf = testConfig()
	conf.CodeLength = 2
	_, err = New(conf, WithLogger(zap.NewNop()))
	require.Error(t, err)
}

func TestNew_CodeLengthChangeKeepsLinks(t *testing.T) {
	conf := testConfig()
	conf.SQLitePath = filepath.Join(t.TempDir(), "minurl.db")
	conf.CodeLength = 7

	first, err := New(conf, WithLogger(zap.NewNop()), WithSQLLogger(logrus.New()))
	require.NoError(t, err)
	link, err := first.services.LinkService.Create(context.Background(), "acc", "https://example.com/old")
	require.NoError(t, err)
	require.Len(t, link.ShortCode, 7)
	require.NoError(t, first.Close())

	conf.CodeLength = 8
	second, err := New(conf, WithLogger(zap.NewNop()), WithSQLLogger(logrus.New()))
	require.NoError(t, err)
	defer func() { assert.NoError(t, second.Close()) }()

	server := httptest.NewServer(second.Handler())
	defer server.Close()

	res, err := resty.New().
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		})).
		R().Get(server.URL + "/url/" + link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTemporaryRedirect, res.StatusCode())
	assert.Equal(t, "https://example.com/old", res.Header().Get("Location"))
}

func TestServe_GracefulShutdown(t *testing.T) {
	a, err := New(testConfig(), WithLogger(zap.NewNop()))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	res, err := resty.New().R().Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
	require.Equal(t, "pong", res.String())

	cancel()
	select {
	case serveErr := <-done:
		require.NoError(t, serveErr)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
