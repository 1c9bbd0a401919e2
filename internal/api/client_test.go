package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/explooosion/catalog-console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 2*time.Second, zap.NewNop())
}

func TestClient_LoginSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "robby", req["username"])
		assert.Equal(t, "secret", req["password"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "role": "admin"})
	})

	token, role, err := client.Login(context.Background(), "robby", "secret")

	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestClient_LoginRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid username or password"})
	})

	_, _, err := client.Login(context.Background(), "robby", "wrong")

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusUnauthorized, remoteErr.StatusCode)
	assert.Equal(t, "invalid username or password", remoteErr.Message)
}

func TestClient_LoginTokenlessResponse(t *testing.T) {
	// A 2xx body without a token is still a rejection
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})

	_, _, err := client.Login(context.Background(), "robby", "secret")

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "login failed", remoteErr.Error())
}

func TestClient_LoginTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on
	client := NewClient(server.URL, time.Second, zap.NewNop())

	_, _, err := client.Login(context.Background(), "robby", "secret")

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "service unavailable, please try again later", err.Error())
}

func TestClient_Refresh(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/refresh", r.URL.Path)
		assert.Equal(t, "Bearer old-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"token": "new-token"})
	})

	token, err := client.Refresh(context.Background(), "old-token")

	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
}

func TestClient_ListProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "list is a public endpoint")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]models.Product{{ID: 1, Name: "Widget", Price: 9.99}})
	})

	products, err := client.ListProducts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []models.Product{{ID: 1, Name: "Widget", Price: 9.99}}, products)
}

func TestClient_ListProductsMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := client.ListProducts(context.Background())

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestClient_GetProduct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.Product{ID: 7, Name: "Widget", Price: 9.99})
	})

	product, err := client.GetProduct(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, &models.Product{ID: 7, Name: "Widget", Price: 9.99}, product)
}

func TestClient_CreateProduct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		var input models.ProductInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Product{ID: 3, Name: input.Name, Price: input.Price})
	})

	product, err := client.CreateProduct(context.Background(), "tok-1", models.ProductInput{Name: "Widget", Price: 9.99})

	require.NoError(t, err)
	assert.Equal(t, &models.Product{ID: 3, Name: "Widget", Price: 9.99}, product)
}

func TestClient_UpdateProductNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/products/42", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "product not found"})
	})

	_, err := client.UpdateProduct(context.Background(), "tok-1", 42, models.ProductInput{Name: "Widget", Price: 9.99})

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.True(t, remoteErr.NotFound())
	assert.Equal(t, "product not found", remoteErr.Message)
}

func TestClient_DeleteProduct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/products/3", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "product deleted"})
	})

	err := client.DeleteProduct(context.Background(), "tok-1", 3)

	assert.NoError(t, err)
}

func TestClient_ErrorWithUndecodableBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	})

	_, err := client.ListProducts(context.Background())

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusBadGateway, remoteErr.StatusCode)
	assert.Equal(t, "request rejected with status 502", remoteErr.Error())
}
