package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"stayvista/internal/shared"
)

type API struct {
	Store        RoomStore
	Tokens       *shared.TokenIssuer
	Policy       shared.AuthPolicy
	CookieSecure bool
	Log          *slog.Logger
}

func (a *API) logger() *slog.Logger {
	if a.Log != nil {
		return a.Log
	}
	return slog.Default()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(kind shared.Kind) int {
	switch kind {
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindUnauthorized:
		return http.StatusUnauthorized
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case shared.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(shared.KindOf(err))
	if code >= 500 {
		a.logger().Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
	}
	writeJSON(w, code, shared.ErrorResponse{Message: shared.ClientMessage(err)})
}

const maxBodyBytes = 2 << 20

// readBody reads at most maxBodyBytes. Longer bodies are rejected, never
// truncated.
func readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, error) {
	defer r.Body.Close()
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, shared.Errorf(shared.KindTooLarge, op, "request body too large")
		}
		return nil, &shared.Error{Kind: shared.KindValidation, Op: op, Message: "bad body", Err: err}
	}
	return b, nil
}

func (a *API) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "Hello from StayVista Server")
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.Store.Ping(ctx); err != nil {
		a.logger().Warn("health ping failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, shared.HealthResponse{Ok: false})
		return
	}
	writeJSON(w, http.StatusOK, shared.HealthResponse{Ok: true})
}

func (a *API) CreateRoom(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, "rooms.create")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var room Room
	if err := json.Unmarshal(body, &room); err != nil {
		if shared.KindOf(err) != shared.KindValidation {
			err = shared.Errorf(shared.KindValidation, "rooms.create", "invalid JSON body")
		}
		a.writeError(w, r, err)
		return
	}

	res, err := a.Store.InsertRoom(r.Context(), room)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListRooms returns every room, or only one category when ?category is set.
// The literal "null" is treated as absent; some clients serialise a
// missing value that way. Any other value is matched exactly.
func (a *API) ListRooms(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "null" {
		category = ""
	}

	rooms, err := a.Store.FindRooms(r.Context(), RoomFilter{Category: category})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (a *API) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := a.Store.FindRoomByID(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (a *API) MyListings(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		a.writeError(w, r, shared.Errorf(shared.KindValidation, "rooms.my_listings", "missing email"))
		return
	}

	rooms, err := a.Store.FindRooms(r.Context(), RoomFilter{HostEmail: email})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (a *API) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	res, err := a.Store.DeleteRoomByID(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
