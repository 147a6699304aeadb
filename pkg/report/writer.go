// Package report persists pipeline reports as JSON objects.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/younsl/archcost/internal/models"
)

// ObjectWriter stores JSON documents
type ObjectWriter interface {
	PutJSON(ctx context.Context, bucket, key string, body []byte) error
}

// Writer stores reports under <prefix>/analysis/<yyyymmdd-hhmmss>-<uuid>.json
type Writer struct {
	objects ObjectWriter
	bucket  string
	prefix  string
	now     func() time.Time
	newID   func() string
}

// NewWriter creates a report Writer
func NewWriter(objects ObjectWriter, bucket, prefix string) *Writer {
	return &Writer{
		objects: objects,
		bucket:  bucket,
		prefix:  prefix,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Key returns a new unique object key
func (w *Writer) Key() string {
	name := fmt.Sprintf("analysis/%s-%s.json", w.now().UTC().Format("20060102-150405"), w.newID())
	if prefix := strings.TrimRight(w.prefix, "/"); prefix != "" {
		return prefix + "/" + name
	}
	return name
}

// Write stores the report and returns its s3:// location
func (w *Writer) Write(ctx context.Context, r *models.PipelineReport) (string, error) {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding report: %w", err)
	}

	key := w.Key()
	if err := w.objects.PutJSON(ctx, w.bucket, key, body); err != nil {
		return "", fmt.Errorf("error storing output: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", w.bucket, key), nil
}
