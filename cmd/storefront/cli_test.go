package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeShop(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/home_Products", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"products":[
			{"_id":"p1","name":"Desk Lamp","category":"lamps","price":100,"inStock":true,"seller":"s1"},
			{"_id":"p2","name":"Oak Table","category":"tables","price":1200,"inStock":true,"seller":"s2"}
		]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func setupCLI(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("API_BASE_URL", fakeShop(t))
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_PATH", filepath.Join(dir, "state.db"))
	t.Setenv("STORE_NAMESPACE", "test")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("GO_ENV", "dev")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// Test: 別コマンド（別プロセス相当）でも同じカートが見える
func TestCLI_CartPersistsAcrossCommands(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "cart", "add", "p1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added to cart")

	out, err = runCLI(t, "cart", "add", "p1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Item quantity updated in cart")

	out, err = runCLI(t, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Desk Lamp")
	assert.Contains(t, out, "2 item(s), total 200.00")

	out, err = runCLI(t, "cart", "remove", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")
}

func TestCLI_CheckoutAsksForLogin(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "cart", "add", "p2")
	require.NoError(t, err)

	out, err := runCLI(t, "checkout")
	require.NoError(t, err)
	assert.Contains(t, out, "storefront login")

	_, err = runCLI(t, "order", "--address", "somewhere")
	assert.EqualError(t, err, "Please login first")
}

func TestCLI_ProductsFilter(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "products", "--price", "over1000")
	require.NoError(t, err)
	assert.Contains(t, out, "Oak Table")
	assert.NotContains(t, out, "Desk Lamp")
	assert.Contains(t, out, "1 product(s); categories: lamps, tables")
}
