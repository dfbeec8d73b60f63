package server

import (
	"net/http"

	"github.com/rs/cors"
)

// Handler wires every route, the CORS policy and request logging.
func (a *API) Handler(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.Index)
	mux.HandleFunc("GET /healthz", a.Health)

	mux.HandleFunc("POST /jwt", a.IssueToken)
	mux.HandleFunc("GET /logout", a.Logout)

	mux.HandleFunc("POST /rooms", a.guard(a.Policy.ProtectWrites, a.CreateRoom))
	mux.HandleFunc("GET /rooms", a.ListRooms)
	mux.HandleFunc("GET /rooms/{id}", a.guard(a.Policy.ProtectRoomReads, a.GetRoom))
	mux.HandleFunc("DELETE /rooms/{id}", a.guard(a.Policy.ProtectWrites, a.DeleteRoom))
	mux.HandleFunc("GET /my-listings", a.guard(a.Policy.ProtectMyListings, a.MyListings))

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return RequestLogger(a.logger(), c.Handler(mux))
}
