// Package filesystem provides the small filesystem seam the reclaim
// collector works through, with OS-backed and afero-backed
// implementations. Tests use the afero in-memory filesystem.
package filesystem

import "io/fs"

// FS is the filesystem surface the collector needs
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error
}
