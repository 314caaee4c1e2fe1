package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"product-console/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL+"/", 5*time.Second)
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if req.Username != "bob" || req.Password != "secret1" {
			t.Errorf("unexpected credentials %+v", req)
		}
		json.NewEncoder(w).Encode(models.LoginResponse{Token: "tok123"})
	})

	token, err := c.Login(context.Background(), "bob", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok123" {
		t.Errorf("expected token tok123, got %q", token)
	}
}

func TestLogin_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "username or password is incorrect", http.StatusUnauthorized)
	})

	_, err := c.Login(context.Background(), "bob", "wrongpass")
	if err == nil {
		t.Fatal("expected error")
	}
	if StatusCode(err) != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", StatusCode(err))
	}
}

func TestLogin_EmptyToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	if _, err := c.Login(context.Background(), "bob", "secret1"); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestLogin_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := New(url, time.Second)
	_, err := c.Login(context.Background(), "bob", "secret1")
	if err == nil {
		t.Fatal("expected connection error")
	}
	if StatusCode(err) != 0 {
		t.Errorf("expected no status code for transport error, got %d", StatusCode(err))
	}
}

func TestProducts_SendTokenAndPaths(t *testing.T) {
	type call struct{ method, path, auth string }
	var calls []call

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path, r.Header.Get("Authorization")})
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode([]models.Product{{ID: 1, Title: "A", Price: 10}})
		case http.MethodPost:
			var draft models.ProductDraft
			json.NewDecoder(r.Body).Decode(&draft)
			json.NewEncoder(w).Encode(models.Product{ID: 2, Title: draft.Title, Price: draft.Price})
		case http.MethodPut:
			var draft models.ProductDraft
			json.NewDecoder(r.Body).Decode(&draft)
			json.NewEncoder(w).Encode(models.Product{ID: 1, Title: draft.Title, Price: draft.Price})
		case http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		}
	}).WithToken("tok123")

	ctx := context.Background()

	products, err := c.ListProducts(ctx)
	if err != nil || len(products) != 1 || products[0].Title != "A" {
		t.Fatalf("ListProducts = %+v, %v", products, err)
	}

	created, err := c.CreateProduct(ctx, models.ProductDraft{Title: "B", Price: 5})
	if err != nil || created.ID != 2 || created.Title != "B" {
		t.Fatalf("CreateProduct = %+v, %v", created, err)
	}

	updated, err := c.UpdateProduct(ctx, 1, models.ProductDraft{Title: "A2", Price: 11})
	if err != nil || updated.Title != "A2" {
		t.Fatalf("UpdateProduct = %+v, %v", updated, err)
	}

	if err := c.DeleteProduct(ctx, 1); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}

	want := []call{
		{http.MethodGet, "/products", "Bearer tok123"},
		{http.MethodPost, "/products", "Bearer tok123"},
		{http.MethodPut, "/products/1", "Bearer tok123"},
		{http.MethodDelete, "/products/1", "Bearer tok123"},
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(calls))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: expected %+v, got %+v", i, want[i], calls[i])
		}
	}
}

func TestErrorResponse_JSONMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"title is required"}`))
	})

	_, err := c.CreateProduct(context.Background(), models.ProductDraft{})
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "title is required" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestListProducts_NullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	products, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", products)
	}
}
