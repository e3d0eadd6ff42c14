// Package dashboard renders the test report, either as a static HTML file or live over HTTP.
package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/gofrs/uuid"

	"github.com/networkteam/browsertest/dashboard/views"
	"github.com/networkteam/browsertest/report"
)

// Handler serves the live report viewer.
type Handler struct {
	report *report.Report

	pathPrefix   string
	artifactsDir string

	mux *http.ServeMux
}

// NewHandler creates a handler for rep.
func NewHandler(rep *report.Report, opts ...HandlerOption) *Handler {
	options := handlerOptions{
		ArtifactsDir: "reports",
	}
	for _, opt := range opts {
		opt(&options)
	}

	mux := http.NewServeMux()
	handler := &Handler{
		report: rep,

		pathPrefix:   strings.TrimSuffix(options.PathPrefix, "/"),
		artifactsDir: options.ArtifactsDir,

		mux: mux,
	}

	mux.HandleFunc("GET /{$}", handler.root)
	mux.HandleFunc("GET /result/{resultId}", handler.getResult)
	mux.HandleFunc("GET /events", handler.getEventsSSE)
	mux.Handle("GET /artifacts/", http.StripPrefix("/artifacts", http.FileServer(http.Dir(options.ArtifactsDir))))

	return handler
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	props := Props(h.report, h.artifactURL)
	props.EventsURL = h.pathPrefix + "/events"

	templ.Handler(views.Report(props)).ServeHTTP(w, r)
}

func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	resultID, err := uuid.FromString(r.PathValue("resultId"))
	if err != nil {
		http.Error(w, "Invalid result id", http.StatusBadRequest)
		return
	}

	result, exists := h.report.Result(resultID)
	if !exists {
		http.Error(w, "Result not found", http.StatusNotFound)
		return
	}

	templ.Handler(views.ResultItem(result, h.artifactURL)).ServeHTTP(w, r)
}

// getEventsSSE streams every finished result and the updated summary
func (h *Handler) getEventsSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // For NGINX proxy

	ctx := r.Context()
	resultCh := h.report.Subscribe(ctx)

	fmt.Fprintf(w, "event: keepalive\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case result, ok := <-resultCh:
			if !ok {
				return
			}
			if err := writeSSE(ctx, w, "result", views.ResultItem(result, h.artifactURL)); err != nil {
				return
			}
			if err := writeSSE(ctx, w, "summary", views.SummaryBar(h.report.Summary())); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeSSE renders component as one event, prefixing every line with "data: ".
func writeSSE(ctx context.Context, w io.Writer, event string, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return err
	}

	var out strings.Builder
	out.WriteString("event: " + event + "\n")
	for _, line := range strings.Split(buf.String(), "\n") {
		out.WriteString("data: " + line + "\n")
	}
	out.WriteString("\n")

	_, err := io.WriteString(w, out.String())
	return err
}

// artifactURL maps an artifact below the artifacts directory to its URL. Other
// paths cannot be served and are shown as they are.
func (h *Handler) artifactURL(path string) string {
	rel, err := filepath.Rel(absPath(h.artifactsDir), absPath(path))
	if err != nil || outside(rel) {
		return path
	}
	return h.pathPrefix + "/artifacts/" + filepath.ToSlash(rel)
}
