package server

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ambush/server/handler"
)

func Route(liveness *handler.Liveness) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /healthz", handler.NewHealthHandler(liveness))
	return otelhttp.NewHandler(mux, "health")
}
