package dashboard

// handlerOptions holds configuration for a dashboard Handler.
// This is unexported; use HandlerOption functions to configure.
type handlerOptions struct {
	// PathPrefix is where the handler is mounted (e.g. "/_report").
	PathPrefix string
	// ArtifactsDir is served below /artifacts/ so screenshots and traces can be downloaded.
	ArtifactsDir string
}

// HandlerOption configures a dashboard Handler.
type HandlerOption func(*handlerOptions)

// WithPathPrefix sets the path prefix where the handler is mounted.
// For example, "/_report" if mounted at that path.
// This is used for generating correct URLs in the report.
func WithPathPrefix(prefix string) HandlerOption {
	return func(o *handlerOptions) {
		o.PathPrefix = prefix
	}
}

// WithArtifactsDir sets the directory containing screenshots and traces.
// Default is "reports" if not specified.
func WithArtifactsDir(dir string) HandlerOption {
	return func(o *handlerOptions) {
		o.ArtifactsDir = dir
	}
}
