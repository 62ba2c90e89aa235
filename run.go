package main

import (
	"context"
	"io"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Streams are the standard streams a run reads from and writes to.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner drives one invocation: resolve every argument, count every unit, print the report.
type Runner struct {
	Tokenizer Tokenizer
	Resolver  *Resolver
	Threads   int // 0 means runtime.NumCPU()
	Logger    *zap.Logger
}

// Run processes args and returns the result that was printed. No per-argument or per-unit
// failure stops the run.
func (r *Runner) Run(ctx context.Context, args []string, streams Streams) *RunResult {
	if len(args) == 0 {
		args = []string{stdinLabel}
	}
	numWorkers := r.Threads
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	defer r.Resolver.Cleanup()

	// Resolution fans out per argument; each task owns its own slot.
	resolutions := make([]Resolution, len(args))
	var g errgroup.Group
	g.SetLimit(numWorkers)
	for i, arg := range args {
		i, arg := i, arg
		g.Go(func() error {
			resolutions[i] = r.Resolver.Resolve(ctx, arg)
			return nil
		})
	}
	_ = g.Wait()

	var units []Unit
	stdinClaimed := false
	for _, res := range resolutions {
		printDiagnostics(res.Diagnostics, streams.Stderr)
		for _, u := range res.Units {
			if u.Kind == UnitStdin {
				// Only the first sentinel reads the stream; it is exhausted for the rest.
				if stdinClaimed {
					u.Content = []byte{}
				}
				stdinClaimed = true
			}
			units = append(units, u)
		}
	}

	r.Logger.Debug("counting tokens", zap.Int("units", len(units)), zap.Int("workers", numWorkers))
	result := &RunResult{Args: len(args)}
	for _, o := range r.countAll(units, streams.Stdin, numWorkers) {
		result.add(o)
	}

	printReport(result, streams.Stdout, streams.Stderr)
	return result
}

type job struct {
	index int
	unit  Unit
}

type jobResult struct {
	index   int
	outcome Outcome
}

// countAll processes units on a worker pool and returns outcomes in unit order.
func (r *Runner) countAll(units []Unit, stdin io.Reader, numWorkers int) []Outcome {
	jobs := make(chan job, len(units))
	results := make(chan jobResult, len(units))
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go tokenWorker(r.Tokenizer, stdin, jobs, results, &wg)
	}
	for i, u := range units {
		jobs <- job{index: i, unit: u}
	}
	close(jobs)

	wg.Wait()
	close(results)

	outcomes := make([]Outcome, len(units))
	for res := range results {
		outcomes[res.index] = res.outcome
	}
	return outcomes
}

func tokenWorker(tk Tokenizer, stdin io.Reader, jobs <-chan job, results chan<- jobResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range jobs {
		results <- jobResult{index: j.index, outcome: processUnit(tk, j.unit, stdin)}
	}
}
