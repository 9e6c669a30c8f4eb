package clustercrypt

import (
	"os"
	"path/filepath"
	"time"

	"github.com/absfs/absfs"
)

// localFS adapts the local operating-system filesystem to absfs.FileSystem,
// rooted at an arbitrary directory. It exists so Engine never calls os.*
// directly; every path given to SetInput/SetOutput goes through a
// FileSystem value, defaulting to this one. Grounded on
// examples/basic/main.go's simpleFS from the absfs-encryptfs reference.
type localFS struct {
	root string
}

// NewLocalFS returns an absfs.FileSystem rooted at root. Paths passed to
// its methods are joined under root, so "/" means root itself.
func NewLocalFS(root string) absfs.FileSystem {
	return &localFS{root: root}
}

func (fs *localFS) join(name string) string {
	return filepath.Join(fs.root, name)
}

func (fs *localFS) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	path := fs.join(name)
	if dir := filepath.Dir(path); dir != fs.root {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, flag, perm)
}

func (fs *localFS) Open(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDONLY, 0)
}

func (fs *localFS) Create(name string) (absfs.File, error) {
	return fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

func (fs *localFS) Mkdir(name string, perm os.FileMode) error {
	return os.Mkdir(fs.join(name), perm)
}

func (fs *localFS) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(fs.join(name), perm)
}

func (fs *localFS) Remove(name string) error {
	return os.Remove(fs.join(name))
}

func (fs *localFS) RemoveAll(path string) error {
	return os.RemoveAll(fs.join(path))
}

func (fs *localFS) Rename(oldpath, newpath string) error {
	return os.Rename(fs.join(oldpath), fs.join(newpath))
}

func (fs *localFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(fs.join(name))
}

func (fs *localFS) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(fs.join(name), mode)
}

func (fs *localFS) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(fs.join(name), atime, mtime)
}

func (fs *localFS) Chown(name string, uid, gid int) error {
	return os.Chown(fs.join(name), uid, gid)
}

func (fs *localFS) Truncate(name string, size int64) error {
	return os.Truncate(fs.join(name), size)
}

func (fs *localFS) Separator() uint8 {
	return os.PathSeparator
}

func (fs *localFS) ListSeparator() uint8 {
	return os.PathListSeparator
}

func (fs *localFS) Chdir(dir string) error {
	return nil
}

func (fs *localFS) Getwd() (string, error) {
	return fs.root, nil
}

func (fs *localFS) TempDir() string {
	return os.TempDir()
}
