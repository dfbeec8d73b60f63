package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stayvista/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(policy shared.AuthPolicy) *API {
	return &API{
		Store:  NewMemoryStore(),
		Tokens: shared.NewTokenIssuer([]byte("test-secret"), 0),
		Policy: policy,
	}
}

func tokenCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == shared.TokenCookieName {
			return c
		}
	}
	t.Fatalf("no %q cookie in response", shared.TokenCookieName)
	return nil
}

func TestIssueToken_SetsCookie(t *testing.T) {
	api := newTestAPI(shared.AuthPolicy{})
	h := api.Handler(nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"a@x.com"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	c := tokenCookieFrom(t, rec)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, int((365 * 24 * time.Hour).Seconds()), c.MaxAge)

	claims, err := api.Tokens.Verify(c.Value)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims["email"])
}

func TestIssueToken_SecureCookieFromConfig(t *testing.T) {
	api := newTestAPI(shared.AuthPolicy{})
	api.CookieSecure = true

	rec := httptest.NewRecorder()
	api.Handler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, tokenCookieFrom(t, rec).Secure)
}

func TestIssueToken_RejectsNonObjects(t *testing.T) {
	h := newTestAPI(shared.AuthPolicy{}).Handler(nil)
	for _, body := range []string{"", "null", "[]", `"email"`, "{bad"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Empty(t, rec.Result().Cookies(), "body %q", body)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := newTestAPI(shared.AuthPolicy{}).Handler(nil)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		c := tokenCookieFrom(t, rec)
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	}
}

func TestRequireAuth(t *testing.T) {
	api := newTestAPI(shared.AuthPolicy{})
	var gotEmail any
	called := false
	protected := api.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		gotEmail = claims["email"]
		w.WriteHeader(http.StatusNoContent)
	})

	good, err := api.Tokens.Issue(map[string]any{"email": "a@x.com"})
	require.NoError(t, err)
	forged, err := shared.NewTokenIssuer([]byte("other-secret"), 0).Issue(map[string]any{"email": "a@x.com"})
	require.NoError(t, err)
	expiredIssuer := shared.NewTokenIssuer([]byte("test-secret"), time.Hour)
	expiredIssuer.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue(map[string]any{"email": "a@x.com"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"empty", &http.Cookie{Name: "token", Value: ""}, http.StatusUnauthorized},
		{"garbage", &http.Cookie{Name: "token", Value: "abc.def.ghi"}, http.StatusUnauthorized},
		{"other secret", &http.Cookie{Name: "token", Value: forged}, http.StatusUnauthorized},
		{"expired", &http.Cookie{Name: "token", Value: expired}, http.StatusUnauthorized},
		{"wrong cookie name", &http.Cookie{Name: "session", Value: good}, http.StatusUnauthorized},
		{"valid", &http.Cookie{Name: "token", Value: good}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called, gotEmail = false, nil
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			protected(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.False(t, called)
				assert.JSONEq(t, `{"message":"unauthorized access"}`, rec.Body.String())
			} else {
				assert.True(t, called)
				assert.Equal(t, "a@x.com", gotEmail)
			}
		})
	}
}
