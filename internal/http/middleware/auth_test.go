// README: Tests for the optional Firebase auth middleware, recovery and rate limiting.
package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"tripwise/internal/http/middleware"
	"tripwise/internal/infra"
)

// stubVerifier is a test double for infra.TokenVerifier.
type stubVerifier struct {
	token *infra.FirebaseToken
	err   error
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, _ string) (*infra.FirebaseToken, error) {
	return s.token, s.err
}

func newTestRouter(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(verifier))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": middleware.CallerUID(c)})
	})
	return r
}

func serve(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeaderIsAnonymous(t *testing.T) {
	w := serve(newTestRouter(&stubVerifier{token: &infra.FirebaseToken{UID: "user1"}}), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"uid":""`) {
		t.Errorf("expected empty uid, got %s", w.Body.String())
	}
}

func TestAuth_InvalidBearerPrefix(t *testing.T) {
	w := serve(newTestRouter(&stubVerifier{token: &infra.FirebaseToken{UID: "user1"}}), "Token sometoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_VerifierError(t *testing.T) {
	w := serve(newTestRouter(&stubVerifier{err: errors.New("bad token")}), "Bearer invalidtoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_ValidTokenSetsUID(t *testing.T) {
	w := serve(newTestRouter(&stubVerifier{token: &infra.FirebaseToken{UID: "traveller42"}}), "Bearer validtoken")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "traveller42") {
		t.Errorf("expected uid traveller42 in body, got %s", w.Body.String())
	}
}

func TestAuth_NilVerifierIgnoresHeader(t *testing.T) {
	w := serve(newTestRouter(nil), "Bearer whatever")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.GET("/test", func(c *gin.Context) { panic("boom") })

	w := serve(r, "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.NewRateLimiter(0.001, 2).Limit())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	for i := 0; i < 2; i++ {
		if code := hit("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := hit("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", code)
	}
	if code := hit("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client should be unaffected, got %d", code)
	}
}

func TestRejectWith_CustomResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var gotStatus int
	var gotMsg string
	page := func(c *gin.Context, status int, msg string) {
		gotStatus, gotMsg = status, msg
		c.String(http.StatusOK, "page: "+msg)
		c.Abort()
	}

	r := gin.New()
	r.Use(middleware.NewRateLimiter(0.001, 1).LimitWith(page))
	r.Use(middleware.AuthWith(&stubVerifier{err: errors.New("bad token")}, page))
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "handler") })

	w := serve(r, "Bearer forged")
	if w.Code != http.StatusOK || w.Body.String() != "page: invalid token" {
		t.Fatalf("expected rendered rejection, got %d %q", w.Code, w.Body.String())
	}
	if gotStatus != http.StatusUnauthorized {
		t.Errorf("expected reject status 401, got %d", gotStatus)
	}

	w = serve(r, "")
	if w.Code != http.StatusOK || w.Body.String() != "page: too many requests" {
		t.Fatalf("expected rendered rejection, got %d %q", w.Code, w.Body.String())
	}
	if gotStatus != http.StatusTooManyRequests || gotMsg != "too many requests" {
		t.Errorf("expected 429 too many requests, got %d %q", gotStatus, gotMsg)
	}
}
