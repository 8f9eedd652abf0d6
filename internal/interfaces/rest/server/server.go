// Package server assembles the HTTP handler tree.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/interfaces/rest"
	"github.com/DanielPopoola/payment-bridge/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/payment-bridge/internal/interfaces/rest/middleware"
)

type Options struct {
	Handlers       *handlers.Handlers
	Metrics        http.Handler
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewHandler mounts the API, documentation and metrics routes behind the
// recovery, logging, validation and timeout middleware.
func NewHandler(ctx context.Context, opts Options) (http.Handler, error) {
	doc, err := rest.LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	validate, err := middleware.Validate(doc, opts.Logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	opts.Handlers.Register(mux)
	mux.Handle("GET /openapi.json", rest.OpenAPIHandler(doc, opts.Logger))
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

	handler := middleware.Timeout(opts.RequestTimeout)(validate(mux))
	handler = middleware.Recovery(opts.Logger)(handler)
	handler = middleware.Logging(opts.Logger)(handler)
	return handler, nil
}
