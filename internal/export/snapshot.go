// Package export builds the serializable snapshot of a crawl's results and
// writes it to disk.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/schemascan/schemascan/internal/schema"
)

// Snapshot is the transferable form of a completed or in-progress crawl:
// every accumulated item plus the current snippet list.
type Snapshot struct {
	GeneratedAt time.Time        `json:"generated_at"`
	TotalItems  int              `json:"total_items"`
	Items       []schema.Item    `json:"items"`
	Snippets    []schema.Snippet `json:"snippets"`
}

// NewSnapshot assembles a snapshot stamped with the current UTC time.
func NewSnapshot(items []schema.Item, snippets []schema.Snippet) Snapshot {
	return Snapshot{
		GeneratedAt: time.Now().UTC(),
		TotalItems:  len(items),
		Items:       items,
		Snippets:    snippets,
	}
}

// FileSink writes snapshots as indented JSON documents under a root dir.
type FileSink struct {
	root   string
	logger *zap.Logger
}

// NewFileSink returns a sink rooted at dir, creating it if needed.
func NewFileSink(root string, logger *zap.Logger) (*FileSink, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create snapshot dir %s: %w", root, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSink{root: root, logger: logger}, nil
}

// Write persists the snapshot under name (".json" appended when missing) and
// returns the full path.
func (s *FileSink) Write(ctx context.Context, name string, snap Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	target := filepath.Join(s.root, name)
	if err := os.WriteFile(target, payload, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", target, err)
	}
	s.logger.Info("snapshot written",
		zap.String("path", target),
		zap.Int("items", snap.TotalItems),
		zap.Int("snippets", len(snap.Snippets)),
	)
	return target, nil
}
