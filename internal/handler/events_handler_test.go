package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 次の "event: change" のdataを読む（pingは読み飛ばす）
func nextChange(t *testing.T, sc *bufio.Scanner) view.NavBadgeSnapshot {
	t.Helper()
	sawEvent := false
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "event: change":
			sawEvent = true
		case sawEvent && strings.HasPrefix(line, "data: "):
			var snap view.NavBadgeSnapshot
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &snap))
			return snap
		}
	}
	t.Fatalf("stream ended: %v", sc.Err())
	return view.NavBadgeSnapshot{}
}

func TestEvents_StreamsBadgeOnChange(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.e)
	t.Cleanup(srv.Close)

	b := app.browser(t)
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/cart", nil).Code)
	require.NotNil(t, b.cookie)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	req.AddCookie(b.cookie)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	first := nextChange(t, sc)
	assert.Equal(t, 0, first.Count)
	assert.False(t, first.LoggedIn)

	// 別リクエストでの変更が流れてくる
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/cart/items", AddCartRequest{ProductID: "p1"}).Code)
	assert.Equal(t, 1, nextChange(t, sc).Count)

	login(t, b)
	snap := nextChange(t, sc)
	assert.True(t, snap.LoggedIn)
	assert.Equal(t, "Ann", snap.UserName)
}
