package media

import (
	"fmt"
	"strings"
	"sync"
)

// LocalBlobStore keeps blobs in process memory and hands out URLs under
// a fake base. It backs the in-memory deployment mode; nothing actually
// serves the URLs it returns.
type LocalBlobStore struct {
	baseURL string
	mu      sync.Mutex
	objects map[string][]byte
}

func NewLocalBlobStore(baseURL string) *LocalBlobStore {
	return &LocalBlobStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (s *LocalBlobStore) Upload(content []byte, key string, mediaType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(content))
	copy(buf, content)
	s.objects[key] = buf
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

func (s *LocalBlobStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
