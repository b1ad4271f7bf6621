package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vastra-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-jwt-secret")

	var gotCustomerID uint
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCustomerID, gotOK = utils.GetCustomerIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("MissingToken", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/payment/razorpay/order", nil)
		w := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/payment/razorpay/order", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		tok := signedToken(t, "other-secret", jwt.MapClaims{"customer_id": float64(7)})

		req := httptest.NewRequest("POST", "/payment/razorpay/order", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ValidToken_Header", func(t *testing.T) {
		tok := signedToken(t, "test-jwt-secret", jwt.MapClaims{
			"customer_id": float64(7),
			"exp":         time.Now().Add(time.Hour).Unix(),
		})

		req := httptest.NewRequest("POST", "/payment/razorpay/order", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, gotOK)
		assert.Equal(t, uint(7), gotCustomerID)
	})

	t.Run("ValidToken_Cookie", func(t *testing.T) {
		tok := signedToken(t, "test-jwt-secret", jwt.MapClaims{"customer_id": float64(9)})

		req := httptest.NewRequest("POST", "/payment/razorpay/order", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: tok})
		w := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(9), gotCustomerID)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("StrictTierBlocksAfterBurst", func(t *testing.T) {
		handler := RateLimitMiddleware(next)

		// Unique remote addr so the bucket starts fresh.
		addr := fmt.Sprintf("10.0.0.%d:1234", time.Now().UnixNano()%250)

		allowed := 0
		blocked := 0
		for i := 0; i < burstStrict+3; i++ {
			req := httptest.NewRequest("POST", "/payment/razorpay/confirm", nil)
			req.RemoteAddr = addr
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			switch w.Code {
			case http.StatusOK:
				allowed++
			case http.StatusTooManyRequests:
				blocked++
			}
		}

		assert.Equal(t, burstStrict, allowed)
		assert.Equal(t, 3, blocked)
	})

	t.Run("TiersHaveSeparateQuotas", func(t *testing.T) {
		handler := RateLimitMiddleware(next)
		addr := "10.1.2.3:5678"

		// Exhaust the strict bucket.
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest("POST", "/payment/razorpay/order", nil)
			req.RemoteAddr = addr
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		// General traffic from the same identity is still allowed.
		req := httptest.NewRequest("GET", "/health", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ResolveRateTier", func(t *testing.T) {
		strictReq := httptest.NewRequest("POST", "/payment/razorpay/order", nil)
		_, _, tier := resolveRateTier(strictReq)
		assert.Equal(t, "strict", tier)

		generalReq := httptest.NewRequest("GET", "/health", nil)
		_, _, tier = resolveRateTier(generalReq)
		assert.Equal(t, "general", tier)
	})
}
