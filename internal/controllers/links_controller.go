package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/services"
)

type shortenRequest struct {
	OriginalURL string `json:"original_url" binding:"required"`
}

type linkResponse struct {
	ID          string    `json:"id"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"`
	OriginalURL string    `json:"original_url"`
	ClickCount  int64     `json:"click_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type listResponse struct {
	URLs []linkResponse `json:"urls"`
}

// LinksController операции с короткими ссылками и публичный редирект.
type LinksController struct {
	links   LinkStore
	baseURL string
}

// NewLinksController создает контроллер ссылок.
//
// Параметры:
//   - links: реестр ссылок
//   - baseURL: базовый адрес коротких ссылок, пустая строка означает адрес из запроса
//
// Возвращает:
//   - *LinksController: новый экземпляр контроллера
func NewLinksController(links LinkStore, baseURL string) *LinksController {
	return &LinksController{
		links:   links,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Shorten обрабатывает POST /url/shorten. Ссылка принадлежит аккаунту из токена.
//
// В случае успеха возвращает:
//   - HTTP 201 Created с данными ссылки
//
// В случае ошибки возвращает:
//   - HTTP 400 Bad Request если URL невалиден
//   - HTTP 500 Internal Server Error
func (c *LinksController) Shorten(ctx *gin.Context) {
	var req shortenRequest
	if err := bindJSON(ctx, &req); err != nil {
		respondBadRequest(ctx, err)
		return
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	link, err := c.links.Create(reqCtx, accountID(ctx), req.OriginalURL)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, c.toResponse(ctx.Request, link))
}

// List обрабатывает GET /url/list.
func (c *LinksController) List(ctx *gin.Context) {
	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	links, err := c.links.ListFor(reqCtx, accountID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	resp := listResponse{URLs: make([]linkResponse, 0, len(links))}
	for i := range links {
		resp.URLs = append(resp.URLs, c.toResponse(ctx.Request, &links[i]))
	}
	ctx.JSON(http.StatusOK, resp)
}

// Stats обрабатывает GET /url/stats/:id.
func (c *LinksController) Stats(ctx *gin.Context) {
	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	link, err := c.links.Get(reqCtx, accountID(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, c.toResponse(ctx.Request, link))
}

// Delete обрабатывает DELETE /url/:id.
//
// В случае успеха возвращает:
//   - HTTP 204 No Content
//
// В случае ошибки возвращает:
//   - HTTP 403 Forbidden если ссылка принадлежит другому аккаунту
//   - HTTP 404 Not Found если ссылки нет
func (c *LinksController) Delete(ctx *gin.Context) {
	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	if err := c.links.Delete(reqCtx, accountID(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Redirect обрабатывает GET /url/:code. Авторизация не требуется.
// Находит ссылку, учитывает переход и отвечает 307 на исходный URL.
func (c *LinksController) Redirect(ctx *gin.Context) {
	code := ctx.Param("code")

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	link, err := c.links.Resolve(reqCtx, code)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if clickErr := c.links.RecordClick(reqCtx, code); clickErr != nil {
		if !errors.Is(clickErr, services.ErrNotFound) {
			clickErr = fmt.Errorf("record click %s: %w", code, clickErr)
		}
		respondError(ctx, clickErr)
		return
	}

	ctx.Redirect(http.StatusTemporaryRedirect, link.OriginalURL)
}

func (c *LinksController) toResponse(r *http.Request, link *models.ShortLink) linkResponse {
	return linkResponse{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		ShortURL:    c.shortURL(r, link.ShortCode),
		OriginalURL: link.OriginalURL,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt,
	}
}

// shortURL вспомогательный метод который создает короткую ссылку.
func (c *LinksController) shortURL(r *http.Request, code string) string {
	if c.baseURL != "" {
		return fmt.Sprintf("%s/url/%s", c.baseURL, code)
	}
	var scheme = "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/url/%s", scheme, r.Host, code)
}
