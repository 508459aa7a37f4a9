package gemini

import (
	"context"
	"errors"
	"sync"
	"testing"

	"google.golang.org/genai"
)

type fakeCacheCreator struct {
	mu    sync.Mutex
	name  string
	err   error
	calls []cacheCallRecord
}

type cacheCallRecord struct {
	model       string
	displayName string
	payload     string
}

func (f *fakeCacheCreator) Create(_ context.Context, model string, config *genai.CreateCachedContentConfig) (*genai.CachedContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cacheCallRecord{
		model:       model,
		displayName: config.DisplayName,
		payload:     config.Contents[0].Parts[0].Text,
	})
	if f.err != nil {
		return nil, f.err
	}
	return &genai.CachedContent{Name: f.name}, nil
}

func cacheGenerator(fake *fakeCacheCreator) *Generator {
	return &Generator{caches: fake, modelName: "gemini-pro"}
}

func TestEnsureTaxonomyCacheCreatesOnce(t *testing.T) {
	fake := &fakeCacheCreator{name: "caches/tax-1"}
	g := cacheGenerator(fake)

	first, err := g.EnsureTaxonomyCache(context.Background(), "snap-1", "", "payload-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "caches/tax-1" {
		t.Fatalf("unexpected cache name: %q", first)
	}

	second, err := g.EnsureTaxonomyCache(context.Background(), "snap-1", "", "payload-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != first {
		t.Fatalf("expected the cached name to be reused, got %q", second)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("expected a single create call, got %d", len(fake.calls))
	}
	if fake.calls[0].model != "gemini-pro" || fake.calls[0].payload != "payload-a" {
		t.Fatalf("unexpected create call: %+v", fake.calls[0])
	}
	if fake.calls[0].displayName != "taxonomy-snap-1" {
		t.Fatalf("unexpected default display name: %q", fake.calls[0].displayName)
	}
}

func TestEnsureTaxonomyCacheRefreshesOnPayloadChange(t *testing.T) {
	fake := &fakeCacheCreator{name: "caches/tax-2"}
	g := cacheGenerator(fake)

	if _, err := g.EnsureTaxonomyCache(context.Background(), "snap-1", "", "payload-a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.EnsureTaxonomyCache(context.Background(), "snap-1", "", "payload-b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.calls) != 2 {
		t.Fatalf("expected a refresh for the changed payload, got %d calls", len(fake.calls))
	}
	if fake.calls[1].payload != "payload-b" {
		t.Fatalf("unexpected refreshed payload: %q", fake.calls[1].payload)
	}
}

func TestEnsureTaxonomyCacheValidation(t *testing.T) {
	g := cacheGenerator(&fakeCacheCreator{name: "caches/tax-3"})

	if _, err := g.EnsureTaxonomyCache(context.Background(), "  ", "", "payload"); err == nil {
		t.Fatalf("expected an error for a blank snapshot id")
	}
	if _, err := g.EnsureTaxonomyCache(context.Background(), "snap-1", "", "   "); err == nil {
		t.Fatalf("expected an error for an empty payload")
	}

	var uninitialized *Generator
	if _, err := uninitialized.EnsureTaxonomyCache(context.Background(), "snap-1", "", "payload"); err == nil {
		t.Fatalf("expected an error on an uninitialized generator")
	}
}

func TestEnsureTaxonomyCachePropagatesCreateErrors(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	g := cacheGenerator(&fakeCacheCreator{err: wantErr})

	if _, err := g.EnsureTaxonomyCache(context.Background(), "snap-1", "", "payload"); !errors.Is(err, wantErr) {
		t.Fatalf("expected the create error, got %v", err)
	}
}

func TestEnsureTaxonomyCacheRejectsEmptyCacheName(t *testing.T) {
	g := cacheGenerator(&fakeCacheCreator{name: "  "})

	if _, err := g.EnsureTaxonomyCache(context.Background(), "snap-1", "", "payload"); err == nil {
		t.Fatalf("expected an error when the api returns no cache name")
	}
}
