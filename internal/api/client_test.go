package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token(context.Context) string { return string(s) }

func TestGetPrices_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prices/wash-dry-fold", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"serviceKey":"wash-dry-fold","key":"small","name":"Small Bag","unitPrice":60},
			{"serviceKey":"wash-dry-fold","key":"medium","name":"Medium Bag","displayPrice":"₵65–₵95"}
		]`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	list, err := client.GetPrices(context.Background(), "wash-dry-fold")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "small", list[0].Key)
	require.NotNil(t, list[0].UnitPrice)
	assert.Equal(t, 60.0, *list[0].UnitPrice)
	assert.Nil(t, list[1].UnitPrice)
	assert.Equal(t, "₵65–₵95", list[1].DisplayPrice)
}

func TestGetPrices_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	_, err := client.GetPrices(context.Background(), "wash-dry-fold")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "boom")
}

func TestGetPrices_BearerTokenAttached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Tokens: staticTokens("token-123")})
	_, err := client.GetPrices(context.Background(), "wash-dry-fold")
	require.NoError(t, err)
}

func TestGetPrices_NoTokenNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Tokens: staticTokens("")})
	_, err := client.GetPrices(context.Background(), "wash-dry-fold")
	require.NoError(t, err)
}

func TestValidateCoupon_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coupons/validate", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "SAVE20", body["code"])
		assert.Equal(t, 200.0, body["subtotal"])
		w.Write([]byte(`{"code":"SAVE20","discount":20,"description":"September promo"}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	coupon, err := client.ValidateCoupon(context.Background(), "SAVE20", 200)
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", coupon.Code)
	assert.Equal(t, 20.0, coupon.Discount)
	assert.Equal(t, "September promo", coupon.Description)
}

func TestValidateCoupon_RejectionWrapsErrInvalidCoupon(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unknown code"}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	coupon, err := client.ValidateCoupon(context.Background(), "BOGUS", 200)
	assert.Nil(t, coupon)
	assert.ErrorIs(t, err, ErrInvalidCoupon)
}

func TestValidateCoupon_NetworkFailureWrapsErrInvalidCoupon(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := New(Config{BaseURL: server.URL})
	_, err := client.ValidateCoupon(context.Background(), "SAVE20", 200)
	assert.ErrorIs(t, err, ErrInvalidCoupon)
}

func TestProfile_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/profile", r.URL.Path)
		w.Write([]byte(`{"id":"u1","name":"Ama","email":"ama@example.com"}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	profile, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ama", profile.Name)
	assert.Equal(t, "ama@example.com", profile.Email)
}

func TestLogin_ReturnsAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ama@example.com", body["email"])
		w.Write([]byte(`{"accessToken":"jwt-abc"}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	token, err := client.Login(context.Background(), "ama@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)
}

func TestGetAllPricing_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pricing", r.URL.Path)
		w.Write([]byte(`{
			"summaries":[{"serviceKey":"wash-dry-fold","priceLabel":"from ₵60","count":4}],
			"grouped":{"wash-dry-fold":[{"serviceKey":"wash-dry-fold","key":"small","name":"Small Bag","unitPrice":60}]}
		}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	pricing, err := client.GetAllPricing(context.Background())
	require.NoError(t, err)
	require.Len(t, pricing.Summaries, 1)
	assert.Equal(t, 4, pricing.Summaries[0].Count)
	require.Contains(t, pricing.Grouped, "wash-dry-fold")
	assert.Equal(t, "small", pricing.Grouped["wash-dry-fold"][0].Key)
}

func TestGetPrices_ConcurrentCallsShareOneRequest(t *testing.T) {
	var hits int64
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		<-release
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	done := make(chan error, 2)
	go func() {
		_, err := client.GetPrices(context.Background(), "wash-dry-fold")
		done <- err
	}()
	// Wait for the first request to be in flight, then pile a second call on
	// top of it before releasing the handler.
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&hits) == 1
	}, time.Second, time.Millisecond)
	go func() {
		_, err := client.GetPrices(context.Background(), "wash-dry-fold")
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)

	require.NoError(t, <-done)
	require.NoError(t, <-done)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}
