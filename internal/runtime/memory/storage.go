package memory

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/uplink-client/internal/runtime"
)

type entry struct {
	size      int64
	directory bool
	modified  time.Time
}

// Storage implements runtime.Storage over a flat path map. Uploads read the
// local file for its size but keep no content; the store exists to exercise
// the file-management flows, not to be durable.
type Storage struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewStorage() *Storage {
	return &Storage{entries: map[string]entry{"/": {directory: true, modified: time.Now()}}}
}

func clean(p string) string {
	p = path.Clean("/" + p)
	return p
}

func (s *Storage) CreateDirectory(ctx context.Context, dir string) error {
	dir = clean(dir)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[dir]; ok {
		return fmt.Errorf("create %s: already exists", dir)
	}
	s.entries[dir] = entry{directory: true, modified: time.Now()}
	return nil
}

func (s *Storage) List(ctx context.Context, dir string) ([]runtime.FileInfo, error) {
	dir = clean(dir)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []runtime.FileInfo
	for p, e := range s.entries {
		if p == dir || path.Dir(p) != dir {
			continue
		}
		out = append(out, runtime.FileInfo{
			Name:      path.Base(p),
			Size:      e.size,
			Directory: e.directory,
			Modified:  e.modified,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Storage) Upload(ctx context.Context, localPath, remotePath string) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("upload %s: %w", localPath, err)
	}
	s.mu.Lock()
	s.entries[clean(remotePath)] = entry{size: info.Size(), modified: time.Now()}
	s.mu.Unlock()
	return nil
}

func (s *Storage) Download(ctx context.Context, remotePath, localPath string) error {
	remotePath = clean(remotePath)
	s.mu.RLock()
	_, ok := s.entries[remotePath]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("download %s: %w", remotePath, runtime.ErrNotFound)
	}
	return os.WriteFile(localPath, nil, 0o644)
}

func (s *Storage) Rename(ctx context.Context, oldPath, newPath string) error {
	oldPath, newPath = clean(oldPath), clean(newPath)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[oldPath]
	if !ok {
		return fmt.Errorf("rename %s: %w", oldPath, runtime.ErrNotFound)
	}
	delete(s.entries, oldPath)
	s.entries[newPath] = e
	if !e.directory {
		return nil
	}
	prefix := oldPath + "/"
	for p, child := range s.entries {
		if strings.HasPrefix(p, prefix) {
			delete(s.entries, p)
			s.entries[newPath+"/"+strings.TrimPrefix(p, prefix)] = child
		}
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, target string) error {
	target = clean(target)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[target]
	if !ok {
		return fmt.Errorf("delete %s: %w", target, runtime.ErrNotFound)
	}
	delete(s.entries, target)
	if e.directory {
		prefix := target + "/"
		for p := range s.entries {
			if strings.HasPrefix(p, prefix) {
				delete(s.entries, p)
			}
		}
	}
	return nil
}

func (s *Storage) TotalSize(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, e := range s.entries {
		total += e.size
	}
	return total, nil
}
