package http

import (
	"log/slog"
	"net/http"
)

// NewStaticHandler serves files from webDir for every path the router does
// not claim.
func NewStaticHandler(webDir string, logger *slog.Logger) http.Handler {
	logger.Info("Static file serving enabled", slog.String("web_dir", webDir))
	return http.FileServer(http.Dir(webDir))
}
