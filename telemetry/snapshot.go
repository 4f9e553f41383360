package telemetry

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pthm-cable/cabana/raster"
)

// SnapshotWriter saves composited frames as PNG files.
type SnapshotWriter struct {
	dir    string
	width  int // output size; 0 keeps the raster size
	height int
	filter raster.Filter
}

// NewSnapshotWriter creates the snapshot directory. Returns nil if dir is empty.
func NewSnapshotWriter(dir string, width, height int, filter raster.Filter) (*SnapshotWriter, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &SnapshotWriter{dir: dir, width: width, height: height, filter: filter}, nil
}

// SnapshotName returns the file name used for a frame.
func SnapshotName(frame int64) string {
	return fmt.Sprintf("frame_%06d.png", frame)
}

// Save writes buf for frame and returns the file path.
func (w *SnapshotWriter) Save(frame int64, buf *raster.Buffer) (string, error) {
	if w == nil {
		return "", nil
	}
	path := filepath.Join(w.dir, SnapshotName(frame))
	if err := WritePNG(path, w.composite(buf)); err != nil {
		return "", err
	}
	return path, nil
}

// composite scales buf to the configured output size.
func (w *SnapshotWriter) composite(buf *raster.Buffer) image.Image {
	if w.width <= 0 || w.height <= 0 || (w.width == buf.Width() && w.height == buf.Height()) {
		return buf.Image()
	}
	return raster.ScaleTo(buf, w.width, w.height, w.filter)
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
