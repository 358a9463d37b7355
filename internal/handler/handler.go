package handler

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/storefront"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Next  string `json:"next,omitempty"`
}

// 遷移先だけ返すレスポンス
type NextResponse struct {
	Next    string `json:"next"`
	Message string `json:"message,omitempty"`
}

// クライアントIDからStorefrontを引く（*storefront.Hub）。
// 使い終わったら release を呼ぶ。
type ClientResolver interface {
	Acquire(clientID string) (sf *storefront.Storefront, release func())
}

var errNoClient = errors.New("client session missing")

// 5xxは原因をzapに残す（レスポンスには出さない）
func writeError(c echo.Context, logger *zap.Logger, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			logServerError(c, logger, he.Status, err)
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Next: he.Next})
	}

	//500
	logServerError(c, logger, http.StatusInternalServerError, err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func logServerError(c echo.Context, logger *zap.Logger, status int, err error) {
	logger.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("uri", c.Request().RequestURI),
		zap.Int("status", status),
		zap.Error(err),
	)
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func storefrontFor(c echo.Context, hub ClientResolver) (*storefront.Storefront, func(), error) {
	id, ok := middleware.ClientID(c)
	if !ok {
		return nil, nil, errNoClient
	}
	sf, release := hub.Acquire(id)
	return sf, release, nil
}
