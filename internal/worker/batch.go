package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/robertschaub/factharbor/internal/model"
)

// Assessor assesses one dossier file
type Assessor interface {
	AssessFile(ctx context.Context, path string) (*model.AssessmentReport, error)
}

// AssessJob assesses a single dossier through the pool
type AssessJob struct {
	Path     string
	Assessor Assessor
}

// Execute runs the assessment
func (j *AssessJob) Execute(ctx context.Context) Result {
	report, err := j.Assessor.AssessFile(ctx, j.Path)
	return &AssessResult{
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// AssessResult is the outcome of one dossier assessment
type AssessResult struct {
	Path   string
	Report *model.AssessmentReport
	Error  error
}

// GetError returns the assessment error, if any
func (r *AssessResult) GetError() error {
	return r.Error
}

// BatchProcessor assesses multiple dossiers concurrently
type BatchProcessor struct {
	assessor    Assessor
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(assessor Assessor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		assessor:    assessor,
		concurrency: concurrency,
	}
}

// ProcessPaths assesses the given dossier files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AssessResult {
	if len(paths) == 0 {
		return []*AssessResult{}
	}

	pool := NewPool(ctx, b.concurrency, len(paths))
	pool.Start()

	for _, path := range paths {
		pool.Submit(&AssessJob{
			Path:     path,
			Assessor: b.assessor,
		})
	}

	results := pool.Wait()

	assessResults := make([]*AssessResult, len(results))
	for i, result := range results {
		assessResults[i] = result.(*AssessResult)
	}

	return assessResults
}

// ProcessFile reads dossier paths from a list file and assesses them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*AssessResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads dossier paths from a file (one per line),
// skipping blanks, comments and duplicates
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
