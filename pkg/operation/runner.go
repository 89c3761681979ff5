// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 runner executes independent per-item work on a bounded pool
type runner struct {
	workers int
}

// 🏗️ newRunner creates a runner; fewer than two workers runs sequentially
func newRunner(workers int) runner {
	if workers < 1 {
		workers = 1
	}
	return runner{workers: workers}
}

// 🏃 run calls fn for every index in [0, n). fn owns slot i of whatever it
// writes to, so results keep their input order regardless of completion order.
// Work already started is allowed to finish when ctx is cancelled.
func (r runner) run(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	if r.workers == 1 {
		return r.runSync(ctx, n, fn)
	}
	return r.runAsync(ctx, n, fn)
}

// 🔄 runSync runs every item on the calling goroutine
func (r runner) runSync(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	for i := 0; i < n; i++ {
		fn(ctx, i)
	}
	return nil
}

// ⚡ runAsync fans items out to at most r.workers goroutines
func (r runner) runAsync(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	zerolog.Ctx(ctx).Debug().Int("workers", r.workers).Int("items", n).Msg("starting worker pool")

	g := new(errgroup.Group)
	g.SetLimit(r.workers)

	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("waiting for workers: %w", err)
	}
	return nil
}
