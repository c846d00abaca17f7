package afc

import (
	"errors"
	"fmt"
	"path"
)

// DefaultMaxWalkDepth bounds recursion since the protocol offers no
// cycle detection.
const DefaultMaxWalkDepth = 512

var ErrWalkTooDeep = errors.New("afc: walk exceeded max depth")

// WalkFunc observes one entry. Returning an error aborts the walk.
type WalkFunc func(entryPath string, isDir bool) error

// Walk lists dir depth-first, siblings in device listing order. The "."
// and ".." sentinels are skipped. Any listing or stat failure aborts the
// remainder of the walk.
func (c *Client) Walk(dir string, recursive bool, visit WalkFunc) error {
	return c.walk(dir, recursive, visit, 0)
}

func (c *Client) walk(dir string, recursive bool, visit WalkFunc, depth int) error {
	if depth > DefaultMaxWalkDepth {
		return fmt.Errorf("%w: %s", ErrWalkTooDeep, dir)
	}
	entries, err := c.ListDirectory(dir)
	if err != nil {
		return err
	}
	for _, name := range entries {
		if name == "." || name == ".." {
			continue
		}
		entryPath := path.Join(dir, name)
		info, err := c.GetFileInfo(entryPath)
		if err != nil {
			return err
		}
		if err := visit(entryPath, info.IsDir()); err != nil {
			return err
		}
		if recursive && info.IsDir() {
			if err := c.walk(entryPath, recursive, visit, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
