package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	exrender "github.com/alnah/go-exrender"
)

// PageRenderer is the rendering service the batch depends on.
type PageRenderer interface {
	Render(ctx context.Context, input exrender.Input) (*exrender.RenderResult, error)
}

// Compile-time interface implementation check.
var _ PageRenderer = (*exrender.Renderer)(nil)

// Pool abstracts renderer pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (PageRenderer, error)
	Release(PageRenderer)
	Size() int
}

// poolAdapter exposes an exrender.RendererPool as a Pool.
type poolAdapter struct {
	pool *exrender.RendererPool
}

var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire(ctx context.Context) (PageRenderer, error) {
	r, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Release panics on a renderer the pool did not hand out (programmer error).
func (a *poolAdapter) Release(r PageRenderer) {
	renderer, ok := r.(*exrender.Renderer)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", r))
	}
	a.pool.Release(renderer)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// RenderOutcome holds the outcome of a single render.
type RenderOutcome struct {
	InputPath  string
	OutputPath string
	Score      *exrender.Score
	Err        error
	Duration   time.Duration
}

// renderBatch renders files concurrently, one worker per pool slot.
func renderBatch(ctx context.Context, pool Pool, files []FileToRender, params *renderParams, now func() time.Time) []RenderOutcome {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))
	results := make([]RenderOutcome, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := pool.Acquire(ctx)
			if err != nil {
				for idx := range jobs {
					results[idx] = RenderOutcome{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(r)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderOutcome{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], params, now)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile renders one exercise document and writes its outputs.
func renderFile(ctx context.Context, r PageRenderer, f FileToRender, params *renderParams, now func() time.Time) RenderOutcome {
	start := now()
	result := RenderOutcome{InputPath: f.InputPath, OutputPath: f.OutputPath}
	fail := func(err error) RenderOutcome {
		result.Err = err
		result.Duration = now().Sub(start)
		return result
	}

	ex, err := exrender.LoadExercise(f.InputPath)
	if err != nil {
		return fail(err)
	}
	if len(params.overrides) > 0 {
		ex.ApplyOverrides(parameterOverrides(ex, params.overrides))
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("creating output directory: %w", withHint(err, params.katexURL)))
	}

	res, err := r.Render(ctx, exrender.Input{
		Exercise:       ex,
		SourceDir:      filepath.Dir(f.InputPath),
		CSS:            params.css,
		ShowCorrection: params.showCorrection,
		ShowParameters: params.showParameters,
		ShowSource:     params.showSource,
		Answers:        params.answers,
		Page:           params.page,
		HTMLOnly:       params.htmlOnly,
	})
	if err != nil {
		return fail(withHint(err, params.katexURL))
	}
	result.Score = res.Score

	if params.htmlOnly || params.htmlOutput {
		htmlPath := htmlOutputPath(f.OutputPath)
		// #nosec G306 -- HTML files are meant to be readable
		if err := os.WriteFile(htmlPath, res.HTML, filePermissions); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
		if params.htmlOnly {
			result.OutputPath = htmlPath
			result.Duration = now().Sub(start)
			return result
		}
	}

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(f.OutputPath, res.PDF, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	result.Duration = now().Sub(start)
	return result
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed renders.
func countResults(results []RenderOutcome) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs render results and returns the failure count.
func printResults(results []RenderOutcome, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		if quiet {
			continue
		}

		switch {
		case verbose && r.Score != nil:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v, score %d/%d)\n", r.InputPath, r.OutputPath,
				r.Duration.Round(time.Millisecond), r.Score.Correct, r.Score.Total)
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// summarize prints results and turns failures into an error wrapping the
// first failure, so the exit code reflects its cause.
func summarize(results []RenderOutcome, quiet, verbose bool, env *Environment) error {
	failed := printResults(results, quiet, verbose, env)
	if failed == 0 {
		return nil
	}
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%d render(s) failed: %w", failed, r.Err)
		}
	}
	return nil
}
