package groutine

import (
	"context"
	"runtime/pprof"
)

// LabelKey is the pprof label carrying the goroutine name
const LabelKey = "goroutine_name"

// Go starts fn on a goroutine labelled with name, so it shows up by name in
// pprof goroutine dumps. A nil parentCtx means context.Background().
//
//	groutine.Go(nil, "progress-printer", func(ctx context.Context) {
//	    // work
//	})
func Go(parentCtx context.Context, name string, fn func(ctx context.Context)) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}

	go pprof.Do(parentCtx, pprof.Labels(LabelKey, name), fn)
}
