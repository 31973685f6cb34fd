package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/robertschaub/factharbor/internal/model"
)

type fakeAssessor struct {
	mu     sync.Mutex
	seen   []string
	failOn string
}

func (a *fakeAssessor) AssessFile(ctx context.Context, path string) (*model.AssessmentReport, error) {
	a.mu.Lock()
	a.seen = append(a.seen, path)
	a.mu.Unlock()

	if path == a.failOn {
		return nil, errors.New("bad dossier")
	}
	return &model.AssessmentReport{ArticleID: path, AssessedAt: time.Now().UTC()}, nil
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	assessor := &fakeAssessor{failOn: "b.json"}
	processor := NewBatchProcessor(assessor, 2)

	results := processor.ProcessPaths(context.Background(), []string{"a.json", "b.json", "c.json"})

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	byPath := make(map[string]*AssessResult, len(results))
	for _, result := range results {
		byPath[result.Path] = result
	}

	if byPath["a.json"].Error != nil || byPath["a.json"].Report == nil {
		t.Error("a.json should succeed with a report")
	}
	if byPath["b.json"].Error == nil {
		t.Error("b.json should carry its assessment error")
	}
	if byPath["c.json"].Error != nil {
		t.Error("one bad dossier must not fail the others")
	}
}

func TestBatchProcessor_EmptyPathList(t *testing.T) {
	processor := NewBatchProcessor(&fakeAssessor{}, 2)

	if results := processor.ProcessPaths(context.Background(), nil); len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "dossiers.txt")

	content := `# assessment queue
a.json

b.json
a.json
  c.json
`
	if err := os.WriteFile(listPath, []byte(content), 0644); err != nil {
		t.Fatalf("write list: %v", err)
	}

	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		t.Fatalf("ReadPathsFromFile: %v", err)
	}

	want := []string{"a.json", "b.json", "c.json"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestReadPathsFromFile_Missing(t *testing.T) {
	if _, err := ReadPathsFromFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing list file")
	}
}
