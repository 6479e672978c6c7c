package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/startech-innovation/sitekit/models"
)

// AggregateFile is the name of the run-wide content map in the capture
// directory.
const AggregateFile = "all-content.json"

// store lays out and writes run artifacts. All writes overwrite.
type store struct {
	screenshotDir string
	captureDir    string
}

func (s store) ensureDirs() error {
	for _, dir := range []string{s.screenshotDir, s.captureDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fsError("create output directory", err)
		}
	}
	return nil
}

func (s store) screenshotPath(name string) string {
	return filepath.Join(s.screenshotDir, name+"-screenshot.jpg")
}

func (s store) htmlPath(name string) string {
	return filepath.Join(s.captureDir, name+".html")
}

func (s store) contentPath(name string) string {
	return filepath.Join(s.captureDir, name+"-content.json")
}

func (s store) markdownPath(name string) string {
	return filepath.Join(s.captureDir, name+".md")
}

func (s store) aggregatePath() string {
	return filepath.Join(s.captureDir, AggregateFile)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fsError("write "+filepath.Base(path), err)
	}
	return nil
}

// writeJSON writes v pretty-printed with two-space indentation. HTML
// characters in page text are kept as-is rather than \u-escaped.
func writeJSON(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return models.NewSnapError(models.ErrCodeInternal, "encode "+filepath.Base(path), err)
	}
	return writeFile(path, bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

func fsError(op string, err error) *models.SnapError {
	return models.NewSnapError(models.ErrCodeFilesystem, fmt.Sprintf("failed to %s", op), err)
}

// readContent loads a per-page content file. A missing file yields
// (nil, nil).
func readContent(path string) (*models.PageContent, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var c models.PageContent
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadAggregate reads captureDir/all-content.json written by a successful
// run.
func LoadAggregate(captureDir string) (models.Aggregate, error) {
	path := filepath.Join(captureDir, AggregateFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fsError("read "+AggregateFile, err)
	}
	agg := models.Aggregate{}
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, models.NewSnapError(models.ErrCodeExtraction, "malformed "+AggregateFile, err)
	}
	return agg, nil
}
