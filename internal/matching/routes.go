package matching

import (
	"github.com/gorilla/mux"

	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/buddies").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Matching
	api.HandleFunc("/matches", handler.GetMatches).Methods("GET")
	api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods("GET")

	// Preferences
	api.HandleFunc("/preferences", handler.GetPreferences).Methods("GET")
	api.HandleFunc("/preferences", handler.UpdatePreferences).Methods("PATCH")

	// Buddy requests
	api.HandleFunc("/requests", handler.SendRequest).Methods("POST")
	api.HandleFunc("/requests", handler.GetRequests).Methods("GET")
	api.HandleFunc("/requests/{id}", handler.RespondToRequest).Methods("PATCH")

	// Connections
	api.HandleFunc("/connections", handler.GetConnections).Methods("GET")
}
