package gemmcheck

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Task is one unit of harness work: a law check or a timing for one
// (type, shape, layout) combination.
type Task struct {
	Type      Type
	Shape     Shape
	Layout    Layout
	Law       Law  // empty for timing tasks
	Reference bool // time the reference multiply instead of the kernel
}

// Name is the case name used in records and logs.
func (t Task) Name() string {
	parts := []string{t.Type.String(), t.Shape.Label()}
	if t.Layout != "" {
		parts = append(parts, string(t.Layout))
	}
	if t.Law != "" {
		parts = append(parts, string(t.Law))
	}
	if t.Reference {
		parts = append(parts, "ref")
	}
	return strings.Join(parts, "/")
}

// Runner sweeps a Config over a kernel table. Cases run concurrently, each
// on its own buffers.
type Runner struct {
	Kernels *Kernels
	Config  Config
	Log     zerolog.Logger
	Results *ResultLogger // optional
}

// NewRunner returns a runner; results may be nil.
func NewRunner(ks *Kernels, cfg Config, log zerolog.Logger, results *ResultLogger) *Runner {
	return &Runner{Kernels: ks, Config: cfg, Log: log, Results: results}
}

// CheckTasks expands the config into law-check tasks.
func (r *Runner) CheckTasks() ([]Task, error) {
	types, err := r.Config.ElementTypes()
	if err != nil {
		return nil, err
	}
	layouts, err := r.Config.LayoutList()
	if err != nil {
		return nil, err
	}
	laws, err := r.Config.LawList()
	if err != nil {
		return nil, err
	}
	var tasks []Task
	for _, t := range types {
		shapes, err := r.Config.ShapeList(t)
		if err != nil {
			return nil, err
		}
		for _, s := range shapes {
			for _, l := range layouts {
				for _, law := range laws {
					tasks = append(tasks, Task{Type: t, Shape: s, Layout: l, Law: law})
				}
			}
		}
	}
	return tasks, nil
}

// BenchTasks expands the config into timing tasks, plus reference timings
// on ReferenceSuite when BenchReference is set.
func (r *Runner) BenchTasks() ([]Task, error) {
	types, err := r.Config.ElementTypes()
	if err != nil {
		return nil, err
	}
	var tasks []Task
	for _, t := range types {
		shapes, err := r.Config.ShapeList(t)
		if err != nil {
			return nil, err
		}
		for _, s := range shapes {
			tasks = append(tasks, Task{Type: t, Shape: s})
		}
		if r.Config.BenchReference {
			for _, s := range ReferenceSuite() {
				tasks = append(tasks, Task{Type: t, Shape: s, Reference: true})
			}
		}
	}
	return tasks, nil
}

// Check runs every law-check task and returns one record per task.
// Failures are records, not errors; the error is for cancellation or a
// failing result log.
func (r *Runner) Check(ctx context.Context) ([]Record, error) {
	tasks, err := r.CheckTasks()
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, tasks, r.Config.Workers())
}

// Bench runs every timing task. Timings run one at a time so they do not
// compete for cores.
func (r *Runner) Bench(ctx context.Context) ([]Record, error) {
	tasks, err := r.BenchTasks()
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, tasks, 1)
}

// Run executes tasks with at most workers in flight.
func (r *Runner) Run(ctx context.Context, tasks []Task, workers int) ([]Record, error) {
	records := make([]Record, len(tasks))
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, task := range tasks {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := r.runTask(task)
			records[i] = rec
			r.logRecord(rec)
			if r.Results != nil {
				mu.Lock()
				defer mu.Unlock()
				return r.Results.Log(rec)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return records, err
	}
	return records, ctx.Err()
}

func (r *Runner) runTask(task Task) (rec Record) {
	rec = Record{
		Name:   task.Name(),
		Kernel: r.Kernels.Name,
		Type:   task.Type.String(),
		Shape:  task.Shape.String(),
		Layout: string(task.Layout),
		Law:    string(task.Law),
	}
	if task.Reference {
		rec.Kernel = "reference"
	}
	start := time.Now()
	defer func() {
		rec.Duration = time.Since(start)
		if p := recover(); p != nil {
			rec.Status = StatusFail
			rec.Error = fmt.Sprint(p)
		}
	}()

	if !task.Reference && !r.Kernels.Supports(task.Type) {
		rec.Status = StatusSkip
		rec.Error = NewUnsupportedError("Runner", task.Type).Error()
		return rec
	}

	if task.Law == "" {
		t := measure(task)(r.Kernels, task.Shape)
		rec.Status = StatusPass
		rec.Iterations = t.Iterations
		rec.NsPerOp = t.NsPerOp
		rec.GFLOPS = t.GFLOPS
		return rec
	}

	if err := checkLaw(task, r.Kernels, r.Config); err != nil {
		rec.Status = StatusFail
		rec.Error = err.Error()
		return rec
	}
	rec.Status = StatusPass
	return rec
}

func (r *Runner) logRecord(rec Record) {
	var ev *zerolog.Event
	switch rec.Status {
	case StatusFail:
		ev = r.Log.Error().Str("error", rec.Error)
	case StatusSkip:
		ev = r.Log.Warn().Str("reason", rec.Error)
	default:
		ev = r.Log.Info()
	}
	ev = ev.Str("case", rec.Name).
		Str("kernel", rec.Kernel).
		Str("status", rec.Status).
		Dur("duration", rec.Duration)
	if rec.Iterations > 0 {
		ev = ev.Int("iterations", rec.Iterations).
			Float64("ns_per_op", rec.NsPerOp).
			Float64("gflops", rec.GFLOPS)
	}
	ev.Msg("case done")
}

// measure picks the timing function for the task's element type.
func measure(task Task) func(*Kernels, Shape) Timing {
	ref := func(fn func(Shape) Timing) func(*Kernels, Shape) Timing {
		return func(_ *Kernels, s Shape) Timing { return fn(s) }
	}
	switch task.Type {
	case Float32:
		if task.Reference {
			return ref(MeasureReference[float32])
		}
		return Measure[float32]
	case Float64:
		if task.Reference {
			return ref(MeasureReference[float64])
		}
		return Measure[float64]
	case Complex64:
		if task.Reference {
			return ref(MeasureReference[complex64])
		}
		return Measure[complex64]
	default:
		if task.Reference {
			return ref(MeasureReference[complex128])
		}
		return Measure[complex128]
	}
}

func checkLaw(task Task, ks *Kernels, cfg Config) error {
	tol := cfg.ToleranceFor(task.Type)
	switch task.Type {
	case Float32:
		return CheckLaw(task.Law, ks, task.Shape, task.Layout,
			CheckOptions[float32]{Seed: cfg.Seed, Tolerance: tol, LaceNaN: cfg.LaceNaN})
	case Float64:
		return CheckLaw(task.Law, ks, task.Shape, task.Layout,
			CheckOptions[float64]{Seed: cfg.Seed, Tolerance: tol, LaceNaN: cfg.LaceNaN})
	case Complex64:
		return CheckLaw(task.Law, ks, task.Shape, task.Layout,
			CheckOptions[complex64]{Seed: cfg.Seed, Tolerance: tol, LaceNaN: cfg.LaceNaN})
	default:
		return CheckLaw(task.Law, ks, task.Shape, task.Layout,
			CheckOptions[complex128]{Seed: cfg.Seed, Tolerance: tol, LaceNaN: cfg.LaceNaN})
	}
}
