package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/exemplar-core/internal/core/domain"
	"github.com/custodia-labs/exemplar-core/internal/core/ports/driven"
	"github.com/custodia-labs/exemplar-core/internal/runtime"
)

// mockStore implements driven.CorpusStore for testing
type mockStore struct {
	mu      sync.Mutex
	corpus  *domain.Corpus
	loadErr error
	saveErr error
	saved   []*domain.Corpus
}

func (m *mockStore) Load(ctx context.Context) (*domain.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.corpus, nil
}

func (m *mockStore) Save(ctx context.Context, corpus *domain.Corpus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, corpus)
	return nil
}

func (m *mockStore) savedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

// mockBuilder implements driving.CorpusBuilder for testing
type mockBuilder struct {
	mu       sync.Mutex
	buildErr error
	calls    int
}

func (m *mockBuilder) Build(ctx context.Context, raw *domain.Corpus) (*domain.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.buildErr != nil {
		return nil, m.buildErr
	}
	out := &domain.Corpus{Categories: []string{"Built"}, Wrapped: raw.Wrapped}
	for _, p := range raw.Posts {
		out.Posts = append(out.Posts, p.Clone())
	}
	return out, nil
}

func (m *mockBuilder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCorpus() *domain.Corpus {
	return &domain.Corpus{
		Posts: []*domain.Post{domain.NewPost("p1", "First post text")},
	}
}

func newTestWorker(raw, processed *mockStore, builder *mockBuilder) (*Worker, *runtime.Services) {
	services := runtime.NewServices(&domain.RuntimeConfig{})

	// Assigning a nil *mockStore into the interface field would produce a
	// non-nil interface holding a nil pointer.
	var processedStore driven.CorpusStore
	if processed != nil {
		processedStore = processed
	}

	w := NewWorker(WorkerConfig{
		RawStore:       raw,
		ProcessedStore: processedStore,
		Builder:        builder,
		Services:       services,
		Logger:         quietLogger(),
	})
	return w, services
}

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWorker_Rebuild_PublishesAndSaves(t *testing.T) {
	raw := &mockStore{corpus: testCorpus()}
	processed := &mockStore{}
	builder := &mockBuilder{}
	w, services := newTestWorker(raw, processed, builder)

	if err := w.Rebuild(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	published := services.Corpus()
	if published == nil {
		t.Fatal("expected corpus to be published")
	}
	if published.Len() != 1 {
		t.Errorf("expected 1 post published, got %d", published.Len())
	}
	if len(published.Categories) != 1 || published.Categories[0] != "Built" {
		t.Errorf("expected built corpus published, got %v", published.Categories)
	}
	if processed.savedCount() != 1 {
		t.Errorf("expected 1 save, got %d", processed.savedCount())
	}
}

func TestWorker_Rebuild_LoadError(t *testing.T) {
	raw := &mockStore{loadErr: errors.New("disk gone")}
	processed := &mockStore{}
	builder := &mockBuilder{}
	w, services := newTestWorker(raw, processed, builder)

	if err := w.Rebuild(context.Background()); err == nil {
		t.Error("expected error from failed load")
	}

	if services.Corpus() != nil {
		t.Error("expected no corpus published after failed load")
	}
	if builder.callCount() != 0 {
		t.Error("expected builder not to be called")
	}
}

func TestWorker_Rebuild_BuildError(t *testing.T) {
	raw := &mockStore{corpus: testCorpus()}
	processed := &mockStore{}
	builder := &mockBuilder{buildErr: errors.New("collaborator exploded")}
	w, services := newTestWorker(raw, processed, builder)

	if err := w.Rebuild(context.Background()); err == nil {
		t.Error("expected error from failed build")
	}

	if services.Corpus() != nil {
		t.Error("expected no corpus published after failed build")
	}
	if processed.savedCount() != 0 {
		t.Error("expected no save after failed build")
	}
}

func TestWorker_Rebuild_SaveFailureStillPublishes(t *testing.T) {
	raw := &mockStore{corpus: testCorpus()}
	processed := &mockStore{saveErr: errors.New("read-only fs")}
	builder := &mockBuilder{}
	w, services := newTestWorker(raw, processed, builder)

	if err := w.Rebuild(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if services.Corpus() == nil {
		t.Error("expected corpus published despite failed save")
	}
}

func TestWorker_Rebuild_NilProcessedStore(t *testing.T) {
	raw := &mockStore{corpus: testCorpus()}
	builder := &mockBuilder{}
	w, services := newTestWorker(raw, nil, builder)

	if err := w.Rebuild(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if services.Corpus() == nil {
		t.Error("expected corpus published")
	}
}

func TestWorker_Rebuild_KeepsPreviousCorpusOnFailure(t *testing.T) {
	raw := &mockStore{corpus: testCorpus()}
	builder := &mockBuilder{}
	w, services := newTestWorker(raw, nil, builder)

	if err := w.Rebuild(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := services.Corpus()

	raw.mu.Lock()
	raw.loadErr = errors.New("raw file corrupted")
	raw.mu.Unlock()

	if err := w.Rebuild(context.Background()); err == nil {
		t.Error("expected error from failed load")
	}

	if services.Corpus() != first {
		t.Error("expected previously published corpus to remain live")
	}
}

func TestWorker_StartStop(t *testing.T) {
	raw := &mockStore{corpus: testCorpus()}
	builder := &mockBuilder{}
	w, _ := newTestWorker(raw, nil, builder)

	if w.Running() {
		t.Error("expected worker not running before Start")
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Running() {
		t.Error("expected worker running after Start")
	}

	// Second Start is a no-op
	if err := w.Start(context.Background()); err != nil {
		t.Errorf("unexpected error from second Start: %v", err)
	}

	w.Stop()
	if w.Running() {
		t.Error("expected worker stopped after Stop")
	}

	// Second Stop is a no-op
	w.Stop()
}

func TestWorker_StopWithoutStart(t *testing.T) {
	raw := &mockStore{corpus: testCorpus()}
	builder := &mockBuilder{}
	w, _ := newTestWorker(raw, nil, builder)

	w.Stop()
}

func TestWorker_Start_MissingWatchDir(t *testing.T) {
	raw := &mockStore{corpus: testCorpus()}
	builder := &mockBuilder{}
	services := runtime.NewServices(&domain.RuntimeConfig{})

	w := NewWorker(WorkerConfig{
		RawStore:  raw,
		Builder:   builder,
		Services:  services,
		Logger:    quietLogger(),
		WatchPath: "/nonexistent-dir-for-test/raw.json",
	})

	if err := w.Start(context.Background()); err == nil {
		t.Error("expected error for unwatchable path")
		w.Stop()
	}
	if w.Running() {
		t.Error("expected worker not running after failed Start")
	}
}

func TestWorker_WatchTriggersRebuild(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw.json")
	if err := os.WriteFile(path, []byte(`[]`), 0644); err != nil {
		t.Fatalf("failed to write raw file: %v", err)
	}

	raw := &mockStore{corpus: testCorpus()}
	builder := &mockBuilder{}
	services := runtime.NewServices(&domain.RuntimeConfig{})

	w := NewWorker(WorkerConfig{
		RawStore:  raw,
		Builder:   builder,
		Services:  services,
		Logger:    quietLogger(),
		WatchPath: path,
		Debounce:  50 * time.Millisecond,
	})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte(`[{"id":"p2","text":"changed","metadata":{},"engagement":{"likes":0,"comments":0,"shares":0}}]`), 0644); err != nil {
		t.Fatalf("failed to modify raw file: %v", err)
	}

	if !waitFor(t, 3*time.Second, func() bool { return builder.callCount() >= 1 }) {
		t.Error("expected file change to trigger a rebuild")
	}
}

func TestWorker_WatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw.json")
	if err := os.WriteFile(path, []byte(`[]`), 0644); err != nil {
		t.Fatalf("failed to write raw file: %v", err)
	}

	raw := &mockStore{corpus: testCorpus()}
	builder := &mockBuilder{}
	services := runtime.NewServices(&domain.RuntimeConfig{})

	w := NewWorker(WorkerConfig{
		RawStore:  raw,
		Builder:   builder,
		Services:  services,
		Logger:    quietLogger(),
		WatchPath: path,
		Debounce:  20 * time.Millisecond,
	})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644); err != nil {
		t.Fatalf("failed to write other file: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if builder.callCount() != 0 {
		t.Errorf("expected no rebuild for unrelated file, got %d", builder.callCount())
	}
}

func TestWorker_TickerTriggersRebuild(t *testing.T) {
	raw := &mockStore{corpus: testCorpus()}
	builder := &mockBuilder{}
	services := runtime.NewServices(&domain.RuntimeConfig{})

	w := NewWorker(WorkerConfig{
		RawStore: raw,
		Builder:  builder,
		Services: services,
		Logger:   quietLogger(),
		Interval: 20 * time.Millisecond,
	})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Stop()

	if !waitFor(t, 3*time.Second, func() bool { return builder.callCount() >= 2 }) {
		t.Errorf("expected periodic rebuilds, got %d", builder.callCount())
	}
}

func TestWorker_ContextCancelStopsLoop(t *testing.T) {
	raw := &mockStore{corpus: testCorpus()}
	builder := &mockBuilder{}
	services := runtime.NewServices(&domain.RuntimeConfig{})

	w := NewWorker(WorkerConfig{
		RawStore: raw,
		Builder:  builder,
		Services: services,
		Logger:   quietLogger(),
		Interval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancel()

	select {
	case <-w.doneCh:
	case <-time.After(2 * time.Second):
		t.Error("expected loop to exit on context cancel")
	}
}
