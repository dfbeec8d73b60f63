package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"stayvista/internal/shared"

	"github.com/golang-jwt/jwt/v5"
)

type claimsKey struct{}

// ClaimsFromContext returns the verified credential claims that
// RequireAuth attached to ctx.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	c, ok := ctx.Value(claimsKey{}).(jwt.MapClaims)
	return c, ok
}

func (a *API) tokenCookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     shared.TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   a.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// IssueToken signs whatever JSON object the caller posts and hands it back
// as an HTTP-only cookie. The payload is not checked against any user store.
func (a *API) IssueToken(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, "auth.jwt")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		a.writeError(w, r, shared.Errorf(shared.KindValidation, "auth.jwt", "payload must be a JSON object"))
		return
	}

	token, err := a.Tokens.Issue(payload)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	ttl := a.Tokens.TTL()
	http.SetCookie(w, a.tokenCookie(token, int(ttl.Seconds()), time.Now().Add(ttl)))
	writeJSON(w, http.StatusOK, shared.SuccessResponse{Success: true})
}

// Logout expires the credential cookie. It never fails.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, a.tokenCookie("", -1, time.Unix(0, 0)))
	writeJSON(w, http.StatusOK, shared.SuccessResponse{Success: true})
	a.logger().Info("logout", "request_id", RequestID(r.Context()))
}

// RequireAuth rejects requests without a valid credential cookie.
// Missing, malformed, expired and forged tokens all get the same 401.
func (a *API) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(shared.TokenCookieName)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, shared.ErrorResponse{Message: shared.UnauthorizedMessage})
			return
		}

		claims, err := a.Tokens.Verify(cookie.Value)
		if err != nil {
			a.logger().Debug("credential rejected", "path", r.URL.Path, "err", err)
			writeJSON(w, http.StatusUnauthorized, shared.ErrorResponse{Message: shared.UnauthorizedMessage})
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	}
}

// guard applies RequireAuth only when the policy asks for it.
func (a *API) guard(protected bool, h http.HandlerFunc) http.HandlerFunc {
	if !protected {
		return h
	}
	return a.RequireAuth(h)
}
