package frame

import (
	"context"
	"math/rand"
	"sync"

	"github.com/pthm-cable/flowstrands/field"
	"github.com/pthm-cable/flowstrands/strand"
)

// traceChunk is the number of strands traced against one field. Chunk
// boundaries and seeds are fixed before any worker starts, so the output does
// not depend on scheduling.
const traceChunk = 256

// parallelThreshold is the minimum strand count to trace on several workers.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 2 * traceChunk

// traceJob is a range of strands plus the seed of the field that traces them.
type traceJob struct {
	start, end int
	seed       int64
}

// traceRequest holds the read-only inputs shared by every job.
type traceRequest struct {
	origins  []strand.Point
	newField func(seed int64) *field.Field
	cfg      field.Config
	bounds   strand.Bounds
	budget   int
}

func (r *traceRequest) jobs(rng *rand.Rand) []traceJob {
	jobs := make([]traceJob, 0, len(r.origins)/traceChunk+1)
	for start := 0; start < len(r.origins); start += traceChunk {
		jobs = append(jobs, traceJob{
			start: start,
			end:   min(start+traceChunk, len(r.origins)),
			seed:  rng.Int63(),
		})
	}
	return jobs
}

func (r *traceRequest) run(j traceJob, trails [][]strand.Point) {
	f := r.newField(j.seed)
	for i := j.start; i < j.end; i++ {
		trails[i] = strand.Trace(r.origins[i], f, r.cfg, r.bounds, r.budget)
	}
}

// traceAll returns the path of every origin, in origin order. Each job owns
// its field, so the Worley rng is never shared between goroutines.
func traceAll(ctx context.Context, r *traceRequest, rng *rand.Rand, workers int) ([][]strand.Point, error) {
	trails := make([][]strand.Point, len(r.origins))
	jobs := r.jobs(rng)

	if workers <= 1 || len(r.origins) < parallelThreshold {
		for _, j := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r.run(j, trails)
		}
		return trails, nil
	}

	workChan := make(chan traceJob)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, len(jobs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range workChan {
				r.run(j, trails)
			}
		}()
	}

	var err error
feed:
	for _, j := range jobs {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case workChan <- j:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(workChan)
	wg.Wait()
	if err != nil {
		return nil, err
	}
	return trails, nil
}
