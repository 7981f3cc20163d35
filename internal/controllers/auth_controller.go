package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/minurl/internal/models"
	"github.com/fsdevblog/minurl/internal/services"
)

const tokenTypeBearer = "Bearer"

type signupRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email"    binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Message     string `json:"message"`
}

// AuthController регистрация и вход.
type AuthController struct {
	accounts AccountStore
	tokens   TokenIssuer
}

// NewAuthController создает контроллер аутентификации.
//
// Параметры:
//   - accounts: хранилище учетных данных
//   - tokens: выпуск bearer токенов
//
// Возвращает:
//   - *AuthController: новый экземпляр контроллера
func NewAuthController(accounts AccountStore, tokens TokenIssuer) *AuthController {
	return &AuthController{accounts: accounts, tokens: tokens}
}

// Signup обрабатывает POST /auth/signup.
//
// В случае успеха возвращает:
//   - HTTP 201 Created с токеном доступа
//
// В случае ошибки возвращает:
//   - HTTP 400 Bad Request при невалидном теле запроса
//   - HTTP 409 Conflict если email уже зарегистрирован
//   - HTTP 500 Internal Server Error
func (c *AuthController) Signup(ctx *gin.Context) {
	var req signupRequest
	if err := bindJSON(ctx, &req); err != nil {
		respondBadRequest(ctx, err)
		return
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	account, err := c.accounts.Register(reqCtx, services.SignupParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	c.respondToken(ctx, http.StatusCreated, account, "account created")
}

// Login обрабатывает POST /auth/login.
//
// В случае успеха возвращает:
//   - HTTP 200 OK с токеном доступа
//
// В случае ошибки возвращает:
//   - HTTP 400 Bad Request при невалидном теле запроса
//   - HTTP 401 Unauthorized при неверной паре email/пароль
func (c *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := bindJSON(ctx, &req); err != nil {
		respondBadRequest(ctx, err)
		return
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	account, err := c.accounts.Verify(reqCtx, req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	c.respondToken(ctx, http.StatusOK, account, "login successful")
}

func (c *AuthController) respondToken(ctx *gin.Context, status int, account *models.Account, message string) {
	token, err := c.tokens.Issue(account.ID)
	if err != nil {
		respondError(ctx, fmt.Errorf("issue token: %w", err))
		return
	}
	ctx.JSON(status, tokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(c.tokens.TTL().Seconds()),
		Message:     message,
	})
}
