package downstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMenuForwardsCategory(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("category")
		_, _ = w.Write([]byte(`{"items":[{"id":1}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	assert.Equal(t, srv.URL, c.BaseURL())

	doc, err := c.GetMenu(context.Background(), "pizza")
	require.NoError(t, err)
	assert.Equal(t, "/menu", gotPath)
	assert.Equal(t, "pizza", gotQuery)
	assert.Equal(t, map[string]any{"items": []any{map[string]any{"id": float64(1)}}}, doc)
}

func TestCreateOrderPostsBody(t *testing.T) {
	var got OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order_id":"o-1","status":"received"}`))
	}))
	defer srv.Close()

	doc, err := New(srv.URL, 0).CreateOrder(context.Background(), OrderRequest{Item: "taco", Quantity: 2, Address: "1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, OrderRequest{Item: "taco", Quantity: 2, Address: "1 Main St"}, got)
	assert.Equal(t, "o-1", doc.(map[string]any)["order_id"])
}

func TestGetOrderStatusEscapesID(t *testing.T) {
	var rawPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"order_id":"a/b","status":"ready"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).GetOrderStatus(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/orders/a%2Fb", rawPath)
}

func TestNonSuccessStatusIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).GetOrderStatus(context.Background(), "missing")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Len(t, httpErr.Body, maxErrorBody)
}

func TestBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).GetMenu(context.Background(), "")
	assert.True(t, errors.Is(err, ErrBadJSON), "got %v", err)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := New(base, time.Second).GetMenu(context.Background(), "")
	assert.True(t, errors.Is(err, ErrNetwork), "got %v", err)
}

func TestNotConfigured(t *testing.T) {
	_, err := New("  ", 0).GetMenu(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestWithHTTPClient(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"order_id":"o-1","status":"ready"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).GetOrderStatus(context.Background(), "o-1")
	require.ErrorIs(t, err, ErrNetwork, "default client does not trust the test certificate")

	c := New(srv.URL, time.Second, WithHTTPClient(srv.Client()), WithHTTPClient(nil))
	doc, err := c.GetOrderStatus(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, "ready", doc.(map[string]any)["status"])
}
