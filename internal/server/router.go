package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handler serves the application's endpoints.
type Handler interface {
	Ping(w http.ResponseWriter, r *http.Request)
	Normalize(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	handler Handler
	router  *mux.Router
}

// NewRouter creates a router with the app's routes.
func NewRouter(handler Handler, router *mux.Router) *Router {
	return &Router{
		handler: handler,
		router:  router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/ping", r.handler.Ping).Methods(http.MethodGet)

	// expects a multipart "file" field; ?format=json|xlsx plus optional threshold overrides
	r.router.HandleFunc("/v1/normalize", r.handler.Normalize).Methods(http.MethodPost)
}
