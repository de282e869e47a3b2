// Package workspace provides the per-job scratch directory for intermediate
// files.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const dirPattern = "thermal-print-*"

// Workspace is a private temporary directory owned by one job.
type Workspace struct {
	dir string
}

// New creates a workspace under root, or under the OS temp dir when root is
// empty.
func New(root string) (*Workspace, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create work root %s: %w", root, err)
		}
	}
	dir, err := os.MkdirTemp(root, dirPattern)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns the location of name inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, filepath.Base(name))
}

// Close removes the workspace and everything in it. It is safe to call more
// than once.
func (w *Workspace) Close() error {
	if w.dir == "" {
		return nil
	}
	err := os.RemoveAll(w.dir)
	w.dir = ""
	return err
}
