package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CorpusStore = (*Store)(nil)

// Store implements driven.CorpusStore against a single JSON file.
//
// Two wire shapes are accepted: a bare array of posts, or an envelope
// {"posts": [...], "dataset_info": {"categories": [...]}}. Envelope fields
// the store does not model are remembered from the last Load and written
// back verbatim on Save, so enrichment never strips dataset annotations.
type Store struct {
	path string

	mu         sync.Mutex
	extras     map[string]json.RawMessage // envelope fields other than posts/dataset_info
	infoExtras map[string]json.RawMessage // dataset_info fields other than categories
}

// NewStore creates a corpus store bound to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// envelope is the wrapped wire shape.
type envelope struct {
	Posts       []*domain.Post             `json:"posts"`
	DatasetInfo map[string]json.RawMessage `json:"dataset_info,omitempty"`
}

// Load reads and parses the corpus file.
func (s *Store) Load(ctx context.Context) (*domain.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	if isBareArray(data) {
		var posts []*domain.Post
		if err := json.Unmarshal(data, &posts); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSchema, err)
		}
		s.rememberEnvelope(nil, nil)
		return &domain.Corpus{Posts: posts}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchema, err)
	}

	var posts []*domain.Post
	if rawPosts, ok := raw["posts"]; ok {
		if err := json.Unmarshal(rawPosts, &posts); err != nil {
			return nil, fmt.Errorf("%w: posts: %v", domain.ErrSchema, err)
		}
	}
	delete(raw, "posts")

	var categories []string
	infoExtras := map[string]json.RawMessage{}
	if rawInfo, ok := raw["dataset_info"]; ok {
		var info map[string]json.RawMessage
		if err := json.Unmarshal(rawInfo, &info); err != nil {
			return nil, fmt.Errorf("%w: dataset_info: %v", domain.ErrSchema, err)
		}
		if rawCategories, ok := info["categories"]; ok {
			if err := json.Unmarshal(rawCategories, &categories); err != nil {
				return nil, fmt.Errorf("%w: dataset_info.categories: %v", domain.ErrSchema, err)
			}
		}
		delete(info, "categories")
		infoExtras = info
	}
	delete(raw, "dataset_info")

	s.rememberEnvelope(raw, infoExtras)

	return &domain.Corpus{
		Posts:      posts,
		Categories: categories,
		Wrapped:    true,
	}, nil
}

// Save writes the corpus back in the top-level shape the source used,
// merging any envelope fields remembered from the last Load. The write
// goes through a temp file and rename so watchers never observe a
// partially written corpus.
func (s *Store) Save(ctx context.Context, corpus *domain.Corpus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if corpus == nil {
		return fmt.Errorf("%w: nil corpus", domain.ErrInvalidInput)
	}

	posts := corpus.Posts
	if posts == nil {
		posts = []*domain.Post{}
	}

	var payload any
	if corpus.Wrapped {
		payload = s.buildEnvelope(corpus, posts)
	} else {
		payload = posts
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal corpus: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".corpus-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace corpus file: %w", err)
	}

	return nil
}

// buildEnvelope reassembles the wrapped shape around the corpus.
func (s *Store) buildEnvelope(corpus *domain.Corpus, posts []*domain.Post) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]any{}
	for k, v := range s.extras {
		out[k] = v
	}

	info := map[string]any{}
	for k, v := range s.infoExtras {
		info[k] = v
	}
	if corpus.Categories != nil {
		info["categories"] = corpus.Categories
	}
	if len(info) > 0 {
		out["dataset_info"] = info
	}

	out["posts"] = posts
	return out
}

func (s *Store) rememberEnvelope(extras, infoExtras map[string]json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extras = extras
	s.infoExtras = infoExtras
}

// isBareArray reports whether the document's first JSON token opens an array.
func isBareArray(data []byte) bool {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	return strings.HasPrefix(trimmed, "[")
}
