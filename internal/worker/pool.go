// Package worker provides a bounded worker pool for rendering room overlays.
package worker

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Renderer renders one task.
type Renderer interface {
	Render(ctx context.Context, task Task) ([]byte, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, task Task) ([]byte, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, task Task) ([]byte, error) {
	return f(ctx, task)
}

// Task is one room photo to render.
type Task struct {
	Key   string
	Index int
}

// Result represents the outcome of a render task.
type Result struct {
	Task    Task
	Data    []byte
	Err     error
	Elapsed time.Duration
}

// ProgressFunc is called after each task completes with the counts of the
// task's photo-set key.
type ProgressFunc func(key string, completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Renderer   Renderer
	OnProgress ProgressFunc
}

// Pool runs render tasks in parallel.
type Pool struct {
	workers    int
	renderer   Renderer
	onProgress ProgressFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		renderer:   cfg.Renderer,
		onProgress: cfg.OnProgress,
	}
}

// Run executes all tasks and returns one result per task, sorted by key and
// index. It blocks until all tasks complete; tasks not started before ctx is
// cancelled report ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	taskCh := make(chan Task, len(tasks))
	resultCh := make(chan Result, len(tasks))

	for _, task := range tasks {
		taskCh <- task
	}
	close(taskCh)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, taskCh, resultCh)
		}()
	}

	results := make([]Result, 0, len(tasks))
	done := make(chan struct{})

	totals := make(map[string]int)
	for _, task := range tasks {
		totals[task.Key]++
	}

	go func() {
		completed := make(map[string]int, len(totals))
		failed := make(map[string]int, len(totals))
		for result := range resultCh {
			results = append(results, result)

			key := result.Task.Key
			completed[key]++
			if result.Err != nil {
				failed[key]++
			}
			if p.onProgress != nil {
				p.onProgress(key, completed[key], totals[key], failed[key])
			}
		}
		close(done)
	}()

	wg.Wait()
	close(resultCh)
	<-done

	sort.Slice(results, func(i, j int) bool {
		if results[i].Task.Key != results[j].Task.Key {
			return results[i].Task.Key < results[j].Task.Key
		}
		return results[i].Task.Index < results[j].Task.Index
	})
	return results
}

func (p *Pool) worker(ctx context.Context, tasks <-chan Task, results chan<- Result) {
	for task := range tasks {
		if err := ctx.Err(); err != nil {
			results <- Result{Task: task, Err: err}
			continue
		}

		start := time.Now()
		data, err := p.renderer.Render(ctx, task)
		results <- Result{
			Task:    task,
			Data:    data,
			Err:     err,
			Elapsed: time.Since(start),
		}
	}
}
