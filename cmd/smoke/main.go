// Command smoke прогоняет пользовательский сценарий против запущенного сервера:
// регистрация, вход, сокращение, редирект, список, удаление.
//
// Запуск: go run ./cmd/smoke -u http://localhost:8080
package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fsdevblog/minurl/internal/logs"
)

type authResponse struct {
	AccessToken string `json:"access_token"`
}

type link struct {
	ID         string `json:"id"`
	ShortCode  string `json:"short_code"`
	ShortURL   string `json:"short_url"`
	ClickCount int64  `json:"click_count"`
}

type listResponse struct {
	URLs []link `json:"urls"`
}

func main() {
	baseURL := flag.String("u", "http://localhost:8080", "Адрес сервера")
	target := flag.String("t", "https://example.com/", "URL для сокращения")
	flag.Parse()

	logger := logs.MustNew()
	defer func() { _ = logger.Sync() }()

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(5 * time.Second). //nolint:mnd
		SetHeader("Content-Type", "application/json").
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))

	if err := run(client, *target, logger); err != nil {
		logger.Error("Smoke scenario failed", zap.Error(err))
		panic(err)
	}
	logger.Info("Smoke scenario passed")
}

func run(client *resty.Client, target string, logger *zap.Logger) error {
	email := gofakeit.Email()
	password := gofakeit.Password(true, true, true, false, false, 16) //nolint:mnd

	res, err := client.R().
		SetBody(map[string]string{"username": gofakeit.Username(), "email": email, "password": password}).
		Post("/auth/signup")
	if err := expect(res, err, http.StatusCreated); err != nil {
		return errors.Wrap(err, "signup")
	}

	var auth authResponse
	res, err = client.R().
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&auth).
		Post("/auth/login")
	if err := expect(res, err, http.StatusOK); err != nil {
		return errors.Wrap(err, "login")
	}
	logger.Info("Logged in", zap.String("email", email))

	var created link
	res, err = client.R().
		SetAuthToken(auth.AccessToken).
		SetBody(map[string]string{"original_url": target}).
		SetResult(&created).
		Post("/url/shorten")
	if err := expect(res, err, http.StatusCreated); err != nil {
		return errors.Wrap(err, "shorten")
	}
	logger.Info("Shortened", zap.String("shortURL", created.ShortURL))

	res, err = client.R().Get("/url/" + created.ShortCode)
	if err := expect(res, err, http.StatusTemporaryRedirect); err != nil {
		return errors.Wrap(err, "redirect")
	}
	if location := res.Header().Get("Location"); location != target {
		return errors.Errorf("redirect: location %q, want %q", location, target)
	}

	var list listResponse
	res, err = client.R().SetAuthToken(auth.AccessToken).SetResult(&list).Get("/url/list")
	if err := expect(res, err, http.StatusOK); err != nil {
		return errors.Wrap(err, "list")
	}
	if len(list.URLs) != 1 || list.URLs[0].ClickCount != 1 {
		return errors.Errorf("list: unexpected content %+v", list.URLs)
	}

	res, err = client.R().SetAuthToken(auth.AccessToken).Delete("/url/" + created.ID)
	if err := expect(res, err, http.StatusNoContent); err != nil {
		return errors.Wrap(err, "delete")
	}
	return nil
}

func expect(res *resty.Response, err error, status int) error {
	if err != nil {
		return errors.Wrap(err, "request")
	}
	if res.StatusCode() != status {
		return fmt.Errorf("status %d, want %d: %s", res.StatusCode(), status, res.String())
	}
	return nil
}
