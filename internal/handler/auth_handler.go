package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// /auth, /session のHTTP
type AuthHandler struct {
	hub    ClientResolver
	logger *zap.Logger
}

// DIコンストラクタ
func NewAuthHandler(hub ClientResolver, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{hub: hub, logger: orNop(logger)}
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// /auth/register のリクエストボディ。
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	DOB      string `json:"dob"`
	Phone    string `json:"phone"`
}

type verifyOTPRequest struct {
	OTP string `json:"otp"`
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/auth/login", h.login)
	g.POST("/auth/register", h.register)
	g.POST("/auth/verify-otp", h.verifyOTP)
	g.POST("/auth/logout", h.logout)
	g.GET("/auth/me", h.me)
	g.GET("/session/resume", h.resume)
}

// POST /auth/login
func (h *AuthHandler) login(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := sf.Auth.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /auth/register
func (h *AuthHandler) register(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := sf.Auth.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		DOB:      req.DOB,
		Phone:    req.Phone,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) verifyOTP(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := sf.Auth.VerifyOTP(c.Request().Context(), req.OTP)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	out, err := sf.Auth.Logout(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	user, err := sf.Auth.Me(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GET /session/resume
// 画面表示ごとに呼ばれる。保留中のチェックアウトがあれば next=/checkout。
func (h *AuthHandler) resume(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	next, err := sf.Session.Resume(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, NextResponse{Next: next})
}
