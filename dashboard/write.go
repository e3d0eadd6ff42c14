package dashboard

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/networkteam/browsertest/dashboard/views"
	"github.com/networkteam/browsertest/report"
)

// Props snapshots rep for rendering.
func Props(rep *report.Report, artifactURL views.ArtifactURLFunc) views.ReportProps {
	return views.ReportProps{
		Title:       rep.Title,
		RunID:       rep.ID.String(),
		Started:     rep.Started,
		Metadata:    rep.Metadata,
		Summary:     rep.Summary(),
		Results:     rep.Results(),
		ArtifactURL: artifactURL,
	}
}

// WriteFile renders rep as a static HTML file at path. Screenshots are embedded,
// trace links are relative to the directory of the report file.
func WriteFile(ctx context.Context, path string, rep *report.Report) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	props := Props(rep, relativeTo(dir))
	if err := views.Report(props).Render(ctx, w); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return f.Close()
}

// relativeTo links artifacts relative to dir, walking up with ".." when the
// artifact lives outside of it.
func relativeTo(dir string) views.ArtifactURLFunc {
	return func(path string) string {
		rel, err := filepath.Rel(absPath(dir), absPath(path))
		if err != nil {
			return path
		}
		return filepath.ToSlash(rel)
	}
}

// outside reports whether a path returned by filepath.Rel leaves its base directory.
func outside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
