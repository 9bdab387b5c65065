package labelstack

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/flanksource/commons/logger"
)

// BatchResult records the outcome of stacking one input file.
type BatchResult struct {
	Input  string
	Output string
	Err    error
}

// StackFiles stacks every input concurrently with at most maxConcurrent
// workers (0 means one per input). Each layout computation is independent
// and shares nothing, so failures are per-file: every input is attempted and
// the joined error covers the ones that failed. Outputs land next to their
// inputs, or in outDir when it is non-empty, named by OutputName.
func StackFiles(inputs []string, outDir string, opts Options, maxConcurrent int) ([]BatchResult, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if maxConcurrent <= 0 || maxConcurrent > len(inputs) {
		maxConcurrent = len(inputs)
	}

	results := make([]BatchResult, len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < maxConcurrent; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				in := inputs[i]
				out := OutputName(in, opts.spec())
				if outDir != "" {
					out = filepath.Join(outDir, filepath.Base(out))
				}
				results[i] = BatchResult{Input: in, Output: out, Err: StackFile(in, out, opts)}
			}
		}()
	}
	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			logger.Errorf("failed to stack %s: %v", r.Input, r.Err)
			errs = append(errs, r.Err)
		}
	}
	if len(errs) > 0 {
		return results, fmt.Errorf("%d of %d inputs failed: %w", len(errs), len(inputs), errors.Join(errs...))
	}
	return results, nil
}
