package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"pdfchat/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newTestSync(ext *fakeExtractor) (*SyncUseCase, *fakeFactory) {
	factory := &fakeFactory{}
	return NewSyncUseCase(ext, identitySplitter{}, factory, 2), factory
}

func TestSyncIndexesAllUploadedFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "alpha bytes")
	b := writeFile(t, dir, "b.pdf", "beta bytes")

	ext := newFakeExtractor()
	ext.units["a.pdf"] = []domain.Chunk{
		{Text: "alpha one", Source: "a.pdf", Page: "1"},
		{Text: "alpha two", Source: "a.pdf", Page: "2"},
	}
	ext.units["b.pdf"] = []domain.Chunk{
		{Text: "beta one", Source: "b.pdf", Page: "1"},
	}

	uc, _ := newTestSync(ext)
	sess := NewSession()

	summary, err := uc.Sync(sess, []string{a, b}, nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if summary.FilesProcessed != 2 || summary.ChunksAdded != 3 {
		t.Errorf("summary = %+v, want 2 processed, 3 chunks", summary)
	}
	if got := sess.ActiveFiles(); !reflect.DeepEqual(got, []string{"a.pdf", "b.pdf"}) {
		t.Errorf("ActiveFiles() = %v", got)
	}
	if sess.ChunkCount() != 3 {
		t.Errorf("ChunkCount() = %d, want 3", sess.ChunkCount())
	}

	want := []string{"alpha one", "alpha two", "beta one"}
	if got := sess.index.(*fakeIndex).texts(); !reflect.DeepEqual(got, want) {
		t.Errorf("indexed texts = %v, want %v", got, want)
	}
}

func TestSyncReusesCachedFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "alpha bytes")

	ext := newFakeExtractor()
	ext.units["a.pdf"] = []domain.Chunk{{Text: "alpha", Source: "a.pdf", Page: "1"}}

	uc, _ := newTestSync(ext)
	sess := NewSession()

	if _, err := uc.Sync(sess, []string{a}, nil); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	summary, err := uc.Sync(sess, []string{a}, nil)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	if ext.callCount("a.pdf") != 1 {
		t.Errorf("extract calls = %d, want 1", ext.callCount("a.pdf"))
	}
	if summary.FilesReused != 1 || summary.ChunksAdded != 0 {
		t.Errorf("summary = %+v, want 1 reused, 0 chunks", summary)
	}
	if sess.ChunkCount() != 1 {
		t.Errorf("ChunkCount() = %d, want 1", sess.ChunkCount())
	}
}

func TestSyncRemovesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "alpha bytes")
	b := writeFile(t, dir, "b.pdf", "beta bytes")

	ext := newFakeExtractor()
	ext.units["a.pdf"] = []domain.Chunk{{Text: "alpha", Source: "a.pdf", Page: "1"}}
	ext.units["b.pdf"] = []domain.Chunk{{Text: "beta", Source: "b.pdf", Page: "1"}}

	uc, _ := newTestSync(ext)
	sess := NewSession()

	if _, err := uc.Sync(sess, []string{a, b}, nil); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	summary, err := uc.Sync(sess, []string{b}, nil)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	if summary.FilesRemoved != 1 {
		t.Errorf("FilesRemoved = %d, want 1", summary.FilesRemoved)
	}
	if got := sess.ActiveFiles(); !reflect.DeepEqual(got, []string{"b.pdf"}) {
		t.Errorf("ActiveFiles() = %v", got)
	}
	if got := sess.index.(*fakeIndex).texts(); !reflect.DeepEqual(got, []string{"beta"}) {
		t.Errorf("indexed texts = %v, want only beta", got)
	}
	if _, ok := sess.files["a.pdf"]; ok {
		t.Error("removed file still cached")
	}
	if ext.callCount("b.pdf") != 1 {
		t.Errorf("b.pdf extracted %d times, want 1", ext.callCount("b.pdf"))
	}
}

func TestSyncReextractsEditedFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "first revision")

	ext := newFakeExtractor()
	ext.units["a.pdf"] = []domain.Chunk{{Text: "alpha", Source: "a.pdf", Page: "1"}}

	uc, _ := newTestSync(ext)
	sess := NewSession()

	if _, err := uc.Sync(sess, []string{a}, nil); err != nil {
		t.Fatalf("first Sync: %v", err)
	}

	writeFile(t, dir, "a.pdf", "second revision")
	summary, err := uc.Sync(sess, []string{a}, nil)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	if ext.callCount("a.pdf") != 2 {
		t.Errorf("extract calls = %d, want 2", ext.callCount("a.pdf"))
	}
	if summary.FilesProcessed != 1 || summary.FilesReused != 0 {
		t.Errorf("summary = %+v, want 1 processed, 0 reused", summary)
	}
	// Stale chunks were replaced, not appended to.
	if sess.ChunkCount() != 1 {
		t.Errorf("ChunkCount() = %d, want 1", sess.ChunkCount())
	}
}

func TestSyncIsolatesExtractionFailures(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "alpha bytes")
	b := writeFile(t, dir, "b.pdf", "beta bytes")

	ext := newFakeExtractor()
	ext.units["a.pdf"] = []domain.Chunk{
		{Text: "alpha one", Source: "a.pdf", Page: "1"},
		{Text: "alpha two", Source: "a.pdf", Page: "2"},
	}
	ext.fail["b.pdf"] = true

	uc, _ := newTestSync(ext)
	sess := NewSession()

	summary, err := uc.Sync(sess, []string{a, b}, nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if !reflect.DeepEqual(summary.Failed, []string{"b.pdf"}) {
		t.Errorf("Failed = %v, want [b.pdf]", summary.Failed)
	}
	if got := sess.ActiveFiles(); !reflect.DeepEqual(got, []string{"a.pdf"}) {
		t.Errorf("ActiveFiles() = %v, failed file must not be active", got)
	}
	if sess.ChunkCount() != 2 {
		t.Errorf("ChunkCount() = %d, want 2", sess.ChunkCount())
	}
}

func TestSyncEmptyUploadClearsIndex(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "alpha bytes")

	ext := newFakeExtractor()
	ext.units["a.pdf"] = []domain.Chunk{{Text: "alpha", Source: "a.pdf", Page: "1"}}

	uc, _ := newTestSync(ext)
	sess := NewSession()

	if _, err := uc.Sync(sess, []string{a}, nil); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	summary, err := uc.Sync(sess, nil, nil)
	if err != nil {
		t.Fatalf("empty Sync: %v", err)
	}

	if summary.FilesRemoved != 1 {
		t.Errorf("FilesRemoved = %d, want 1", summary.FilesRemoved)
	}
	if sess.HasIndex() {
		t.Error("HasIndex() = true after clearing all files")
	}
	if len(sess.ActiveFiles()) != 0 {
		t.Errorf("ActiveFiles() = %v, want empty", sess.ActiveFiles())
	}
}

func TestSyncIndexFailureLeavesSessionUntouched(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "alpha bytes")
	b := writeFile(t, dir, "b.pdf", "beta bytes")

	ext := newFakeExtractor()
	ext.units["a.pdf"] = []domain.Chunk{{Text: "alpha", Source: "a.pdf", Page: "1"}}
	ext.units["b.pdf"] = []domain.Chunk{{Text: "beta", Source: "b.pdf", Page: "1"}}

	uc, factory := newTestSync(ext)
	sess := NewSession()

	if _, err := uc.Sync(sess, []string{a}, nil); err != nil {
		t.Fatalf("first Sync: %v", err)
	}

	t.Run("extend fails", func(t *testing.T) {
		sess.index.(*fakeIndex).addErr = errors.New("embedding service down")
		defer func() { sess.index.(*fakeIndex).addErr = nil }()

		if _, err := uc.Sync(sess, []string{a, b}, nil); err == nil {
			t.Fatal("Sync succeeded, want error")
		}
		if got := sess.ActiveFiles(); !reflect.DeepEqual(got, []string{"a.pdf"}) {
			t.Errorf("ActiveFiles() = %v, want unchanged [a.pdf]", got)
		}
		if sess.ChunkCount() != 1 {
			t.Errorf("ChunkCount() = %d, want unchanged 1", sess.ChunkCount())
		}
	})

	t.Run("rebuild fails", func(t *testing.T) {
		if _, err := uc.Sync(sess, []string{a, b}, nil); err != nil {
			t.Fatalf("setup Sync: %v", err)
		}
		factory.buildErr = errors.New("embedding service down")
		defer func() { factory.buildErr = nil }()

		if _, err := uc.Sync(sess, []string{b}, nil); err == nil {
			t.Fatal("Sync succeeded, want error")
		}
		if got := sess.ActiveFiles(); !reflect.DeepEqual(got, []string{"a.pdf", "b.pdf"}) {
			t.Errorf("ActiveFiles() = %v, want unchanged [a.pdf b.pdf]", got)
		}
	})
}

func TestSyncReportsProgress(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "alpha bytes")
	b := writeFile(t, dir, "b.pdf", "beta bytes")

	ext := newFakeExtractor()
	ext.units["a.pdf"] = []domain.Chunk{{Text: "alpha", Source: "a.pdf", Page: "1"}}
	ext.units["b.pdf"] = []domain.Chunk{{Text: "beta", Source: "b.pdf", Page: "1"}}

	uc, _ := newTestSync(ext)
	sess := NewSession()

	var calls int
	var lastDone, lastTotal int
	_, err := uc.Sync(sess, []string{a, b}, func(done, total int, file string) {
		calls++
		lastDone, lastTotal = done, total
	})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if calls != 2 {
		t.Errorf("progress calls = %d, want 2", calls)
	}
	if lastDone != 2 || lastTotal != 2 {
		t.Errorf("final progress = %d/%d, want 2/2", lastDone, lastTotal)
	}
}
