package indexer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ic-timon/vpsearch"
)

// RunOrdered runs task(0..n-1) on a fixed pool of workers and calls emit
// once per task, in index order, from the calling goroutine. A task that
// panics is reported to emit as an error; the other tasks still run.
// With workers <= 1 the tasks run sequentially on the caller.
//
// If emit returns an error no further results are emitted, tasks not yet
// started are skipped, and that error is returned.
func RunOrdered[T any](workers, n int, task func(i int) (T, error), emit func(i int, v T, err error) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			v, err := runTask(task, i)
			if err := emit(i, v, err); err != nil {
				return err
			}
		}
		return nil
	}
	workers = min(workers, n)

	type done struct {
		i   int
		v   T
		err error
	}
	jobs := make(chan int)
	results := make(chan done, workers)
	stop := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case jobs <- i:
			case <-stop:
				return nil
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				v, err := runTask(task, i)
				select {
				case results <- done{i: i, v: v, err: err}:
				case <-stop:
					return nil
				}
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	// Completed tasks wait here until every lower index has been emitted.
	pending := make(map[int]done, workers)
	next := 0
	var emitErr error
	for r := range results {
		if emitErr != nil {
			continue
		}
		pending[r.i] = r
		for {
			d, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := emit(d.i, d.v, d.err); err != nil {
				emitErr = err
				close(stop)
				break
			}
		}
	}
	return emitErr
}

func runTask[T any](task func(i int) (T, error), i int) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %d panicked: %v", i, r)
		}
	}()
	return task(i)
}

// Query is one sequence to search for.
type Query struct {
	ID  string
	Seq []byte
}

// Result is the outcome of one query. Exactly one of Neighbors and Err is
// meaningful.
type Result struct {
	Query     Query
	Neighbors []Neighbor
	Err       error
}

// Scheduler runs many queries against one shared index on a fixed worker
// pool. Results always come back in query order regardless of Workers.
type Scheduler struct {
	ix  *LinearIndex
	cfg *Config
}

// NewScheduler creates a scheduler over ix. cfg may be nil.
func NewScheduler(ix *LinearIndex, cfg *Config) *Scheduler {
	return &Scheduler{ix: ix, cfg: cfg.OrDefault()}
}

// Search runs every query and returns one Result per query, in order.
func (s *Scheduler) Search(queries []Query, k int) []Result {
	out := make([]Result, 0, len(queries))
	_ = s.Stream(queries, k, func(r Result) error {
		out = append(out, r)
		return nil
	})
	return out
}

// Stream runs every query and hands each Result to emit in query order as
// soon as it and all earlier ones are done. A failed query is delivered with
// Err set, tagged with its id, and logged.
func (s *Scheduler) Stream(queries []Query, k int, emit func(Result) error) error {
	ctx := context.Background()
	type hit struct {
		neighbors []Neighbor
		visited   int
	}
	pool := make(chan *workerBufs, s.cfg.Workers)
	for i := 0; i < s.cfg.Workers; i++ {
		pool <- newWorkerBufs()
	}
	task := func(i int) (hit, error) {
		bufs := <-pool
		defer func() { pool <- bufs }()
		res, visited, err := s.ix.search(queries[i].Seq, k, bufs)
		return hit{neighbors: res, visited: visited}, err
	}
	done := 0
	return RunOrdered(s.cfg.Workers, len(queries), task, func(i int, h hit, err error) error {
		q := queries[i]
		if err != nil {
			err = vpsearch.WithQuery(err, q.ID)
		}
		s.cfg.Logger.LogQuery(ctx, q.ID, k, len(h.neighbors), h.visited, err)
		done++
		s.cfg.progress(done, len(queries))
		return emit(Result{Query: q, Neighbors: h.neighbors, Err: err})
	})
}
