package collector

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/networkteam/browsertest/report"
)

// ArtifactKind distinguishes the files written for a failed test.
type ArtifactKind string

const (
	ArtifactScreenshot ArtifactKind = "screenshot"
	ArtifactTrace      ArtifactKind = "trace"
)

// Artifact is a file written once for a failed test and referenced by the report.
type Artifact struct {
	Kind ArtifactKind
	Path string
}

// ArtifactPaths are the file locations reserved for one failed test.
type ArtifactPaths struct {
	Screenshot string
	Trace      string
}

// Paths returns the deterministic artifact locations for a test:
//
//	<root>/screenshots/<worker>/<name>_<timestamp>.png
//	<root>/traces/<worker>/<name>_<timestamp>.zip
func Paths(root, workerID, testName string, t time.Time) ArtifactPaths {
	base := SanitizeName(testName) + "_" + t.Format(report.TimestampLayout)
	return ArtifactPaths{
		Screenshot: filepath.Join(root, "screenshots", workerID, base+".png"),
		Trace:      filepath.Join(root, "traces", workerID, base+".zip"),
	}
}

// SanitizeName makes a test name usable as a file name. Subtest separators
// and any other rune outside letters, digits, '-', '_' and '.' become '_'.
func SanitizeName(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.') {
			return r
		}
		return '_'
	}, name)
	if sanitized == "" || strings.Trim(sanitized, ".") == "" {
		return "test"
	}
	return sanitized
}

const pngDataURIPrefix = "data:image/png;base64,"

// EncodeImage encodes PNG bytes as a data URI for inline embedding in the report.
func EncodeImage(png []byte) string {
	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(png)
}

// ErrNotPNGDataURI is returned by DecodeImage for values not produced by EncodeImage.
var ErrNotPNGDataURI = errors.New("not a PNG data URI")

// DecodeImage reverses EncodeImage.
func DecodeImage(dataURI string) ([]byte, error) {
	encoded, ok := strings.CutPrefix(dataURI, pngDataURIPrefix)
	if !ok {
		return nil, ErrNotPNGDataURI
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return data, nil
}
