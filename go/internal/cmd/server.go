package main

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/fastbreakhq/fastbreak/go/internal/api"
	"github.com/fastbreakhq/fastbreak/go/internal/gateway"
)

func setupServer(services *Services, config *Config) *http.Server {
	mux := api.NewRouter(api.NewServer(services.Leagues, services.Drafts))

	// Live draft feed rides the same mux as the REST surface.
	mux.HandleFunc("GET /leagues/{id}/live", gateway.Handler(services.Hub))

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: config.Server.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})

	handler := c.Handler(mux)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Server.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}
