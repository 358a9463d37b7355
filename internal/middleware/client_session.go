package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ClientCookieName = "sf_client"
	CtxClientIDKey   = "client_id" // string
)

type ClientSessionConfig struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
	// テスト用
	Now func() time.Time
}

// ClientSession はブラウザごとのクライアントIDを署名付きcookieで持つ。
// 無い・壊れている・期限切れなら新しいIDを発行する。
func ClientSession(cfg ClientSessionConfig) echo.MiddlewareFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := cfg.Now()

			clientID := ""
			if ck, err := c.Cookie(ClientCookieName); err == nil {
				if id, err := parseClientToken(ck.Value, cfg.Secret, now); err == nil {
					clientID = id
				}
			}

			if clientID == "" {
				clientID = uuid.NewString()
				raw, err := issueClientToken(clientID, cfg.Secret, now, cfg.TTL)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
				c.SetCookie(&http.Cookie{
					Name:     ClientCookieName,
					Value:    raw,
					Path:     "/",
					Expires:  now.Add(cfg.TTL),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			//contextへ保存
			c.Set(CtxClientIDKey, clientID)
			return next(c)
		}
	}
}

// handlerから読む
func ClientID(c echo.Context) (string, bool) {
	id, ok := c.Get(CtxClientIDKey).(string)
	return id, ok && id != ""
}

func issueClientToken(clientID string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   clientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseClientToken(raw string, secret []byte, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", errors.New("invalid client token")
	}
	if !claims.VerifyExpiresAt(now, true) {
		return "", errors.New("client token expired")
	}

	//subはuuid
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New("invalid client id")
	}
	return claims.Subject, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
