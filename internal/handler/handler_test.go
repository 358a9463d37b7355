package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"storefront/internal/api"
	infra "storefront/internal/infra/repository"
	"storefront/internal/middleware"
	"storefront/internal/storefront"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "handler-test-secret-0123456789"

// 外部APIのフェイク
type fakeRemote struct {
	mu     sync.Mutex
	orders []api.OrderRequest
	// 401を返す（期限切れトークン）
	rejectOrders bool
	// 500を返す
	failOrders bool
}

func (f *fakeRemote) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/home_Products", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"products":[
			{"_id":"p1","name":"Desk Lamp","category":"lamps","price":100,"inStock":true,"seller":"s1"},
			{"_id":"p2","name":"Floor Lamp","category":"lamps","price":800,"inStock":false,"seller":"s1"},
			{"_id":"p3","name":"Oak Table","category":"tables","price":1200,"inStock":true,"seller":"s2"}
		]}`)
	})
	mux.HandleFunc("/user/login", func(w http.ResponseWriter, r *http.Request) {
		var in api.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email != "ann@example.com" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"User not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"token":"tok-ann","user":{"_id":"u1","name":"Ann","email":"ann@example.com"}}`)
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.rejectOrders {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Token expired"}`)
			return
		}
		if f.failOrders {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"message":"db down"}`)
			return
		}
		var in api.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode order: %v", err)
		}
		f.orders = append(f.orders, in)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Order placed","order":{"_id":"o1"}}`)
	})
	return mux
}

func (f *fakeRemote) placed() []api.OrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.OrderRequest(nil), f.orders...)
}

type testApp struct {
	e      *echo.Echo
	hub    *storefront.Hub
	remote *fakeRemote
	logs   *observer.ObservedLogs
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	remote := &fakeRemote{}
	srv := httptest.NewServer(remote.handler(t))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 2*time.Second, nil)
	hub := storefront.NewHub(infra.NewKVMemoryRepository(), storefront.Deps{
		Remote:    client,
		Products:  usecase.NewProductUsecase(client, usecase.SystemClock{}, 0),
		IntentTTL: 30 * time.Minute,
	})

	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	e := echo.New()
	g := e.Group("", middleware.ClientSession(middleware.ClientSessionConfig{
		Secret: []byte(testSecret),
		TTL:    time.Hour,
	}))
	NewCartHandler(hub, logger).RegisterRoutes(g)
	NewAuthHandler(hub, logger).RegisterRoutes(g)
	NewCheckoutHandler(hub, logger).RegisterRoutes(g)
	NewProductHandler(hub, logger).RegisterRoutes(g)
	NewEventsHandler(hub, 50*time.Millisecond, logger).RegisterRoutes(g)

	return &testApp{e: e, hub: hub, remote: remote, logs: logs}
}

// ブラウザ1つ分（cookieを持ち回る）
type browser struct {
	t      *testing.T
	app    *testApp
	cookie *http.Cookie
}

func (a *testApp) browser(t *testing.T) *browser {
	return &browser{t: t, app: a}
}

func (b *browser) do(method, path string, body any) *httptest.ResponseRecorder {
	b.t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	rec := httptest.NewRecorder()
	b.app.e.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.ClientCookieName {
			b.cookie = ck
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body=%s", rec.Body.String())
	return v
}
