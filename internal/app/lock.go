package app

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

var ErrFolderLocked = errors.New("app: folder is already open in another instance")

type folderLock struct {
	path string
	lock *flock.Flock
}

// lockPath names the lock file for root inside the OS temp dir.
func lockPath(root string) string {
	sum := sha256.Sum256([]byte(root))
	return filepath.Join(os.TempDir(), "caption-pair-manager-"+hex.EncodeToString(sum[:8])+".lock")
}

func acquireFolderLock(root string) (*folderLock, error) {
	path := lockPath(root)
	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (lock %s)", ErrFolderLocked, root, path)
	}
	return &folderLock{path: path, lock: l}, nil
}

func (l *folderLock) release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
