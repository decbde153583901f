package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/card-trader/internal/imageproxy"
)

// ImageProxyHandler exposes the image optimization pipeline over HTTP.
type ImageProxyHandler struct {
	svc    *imageproxy.Service
	logger *slog.Logger
}

// NewImageProxyHandler creates an ImageProxyHandler.
func NewImageProxyHandler(svc *imageproxy.Service, logger *slog.Logger) *ImageProxyHandler {
	return &ImageProxyHandler{svc: svc, logger: logger}
}

// processingErrorResponse is the proxy's error shape. Unlike the rest of
// the API it surfaces the underlying message — the client shows it in a
// diagnostics view, and the upstream is a public image CDN, so there is
// nothing sensitive to hide.
type processingErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HandleOptimize fetches, resizes, and re-encodes a remote image.
//
// HTTP: GET /api/image-proxy?url=<source>&width=<pixels>
//
//   - url is required; missing → 400.
//   - width is optional; a value that isn't a positive integer is ignored
//     rather than rejected, matching what the deployed client relies on.
//
// Success: 200, image/webp, and a 1-year immutable cache header — (url,
// width) is a stable cache key because upstream card scans never change
// under the same URL. Any pipeline failure is a 500 with the upstream
// message attached; a partial image is never written.
func (h *ImageProxyHandler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "url query parameter is required",
		})
		return
	}

	width := 0
	if widthStr := r.URL.Query().Get("width"); widthStr != "" {
		if parsed, err := strconv.Atoi(widthStr); err == nil && parsed > 0 {
			width = parsed
		}
	}

	data, err := h.svc.Optimize(r.Context(), url, width)
	if err != nil {
		h.logger.Error("image optimization failed",
			slog.String("url", url),
			slog.Int("width", width),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, processingErrorResponse{
			Error:   "Error processing image",
			Message: err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", imageproxy.ContentType)
	w.Header().Set("Cache-Control", imageproxy.CacheControl)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("writing image response", slog.String("error", err.Error()))
	}
}
