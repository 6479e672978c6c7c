package snapshot

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/startech-innovation/sitekit/models"
)

// Reader serves the aggregate of the last successful run to long-lived
// consumers. The file is parsed again only when its modification time or
// size changes. It is safe for concurrent use.
type Reader struct {
	captureDir string

	mu      sync.RWMutex
	agg     models.Aggregate
	modTime time.Time
	size    int64
}

// NewReader creates a Reader over captureDir/all-content.json.
func NewReader(captureDir string) *Reader {
	return &Reader{captureDir: captureDir}
}

// CaptureDir returns the directory the Reader serves.
func (r *Reader) CaptureDir() string {
	return r.captureDir
}

// Aggregate returns the current aggregate. Callers must not modify it.
func (r *Reader) Aggregate() (models.Aggregate, error) {
	info, err := os.Stat(filepath.Join(r.captureDir, AggregateFile))
	if err != nil {
		return nil, fsError("stat "+AggregateFile, err)
	}

	r.mu.RLock()
	if r.agg != nil && info.ModTime().Equal(r.modTime) && info.Size() == r.size {
		agg := r.agg
		r.mu.RUnlock()
		return agg, nil
	}
	r.mu.RUnlock()

	agg, err := LoadAggregate(r.captureDir)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.agg = agg
	r.modTime = info.ModTime()
	r.size = info.Size()
	r.mu.Unlock()
	return agg, nil
}
