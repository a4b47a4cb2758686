// seehuhn.de/go/pageview - progressive rendering of PDF pages
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"

	"github.com/docker/go-units"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrMemoryPressure is returned when the bitmap for a render does not
	// fit into the memory budget.
	ErrMemoryPressure = errors.New("bitmap exceeds memory budget")

	// ErrUnsupportedSource is returned when a rasterizer is asked to render
	// a source it does not know how to draw.
	ErrUnsupportedSource = errors.New("unsupported source")
)

// DefaultMaxBitmapBytes is the memory budget used if Options.MaxBitmapBytes
// is empty.
const DefaultMaxBitmapBytes = "256MiB"

// Options configure a rasterizer.
type Options struct {
	// Workers limits the number of renders running at the same time.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int

	// MaxBitmapBytes is the amount of memory all bitmaps currently being
	// rendered may occupy together, for example "64MiB" or "1g".
	MaxBitmapBytes string
}

// budget limits concurrency and bitmap memory of a rasterizer.
type budget struct {
	workers *semaphore.Weighted
	memory  *semaphore.Weighted
	limit   int64
}

func newBudget(opt *Options) (*budget, error) {
	if opt == nil {
		opt = &Options{}
	}

	workers := opt.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 0 {
		return nil, fmt.Errorf("invalid number of workers %d", workers)
	}

	size := opt.MaxBitmapBytes
	if size == "" {
		size = DefaultMaxBitmapBytes
	}
	limit, err := units.RAMInBytes(size)
	if err != nil {
		return nil, fmt.Errorf("memory budget: %w", err)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("memory budget %q is not positive", size)
	}

	return &budget{
		workers: semaphore.NewWeighted(int64(workers)),
		memory:  semaphore.NewWeighted(limit),
		limit:   limit,
	}, nil
}

// reserve takes need bytes from the memory budget, or fails with
// ErrMemoryPressure if they are not available right now.
func (b *budget) reserve(need int64) error {
	if !b.memory.TryAcquire(need) {
		return fmt.Errorf("%w: need %s of %s",
			ErrMemoryPressure, units.BytesSize(float64(need)), units.BytesSize(float64(b.limit)))
	}
	return nil
}

func (b *budget) release(need int64) {
	b.memory.Release(need)
}

// run reserves need bytes and calls draw on a new goroutine, once a worker
// is available.  The reservation ends when draw returns, and the result is
// then passed to done.  If the memory cannot be reserved right away, done
// is called with ErrMemoryPressure before run returns.
func (b *budget) run(ctx context.Context, need int64, draw func() (image.Image, error), done func(image.Image, error)) {
	if err := b.reserve(need); err != nil {
		done(nil, err)
		return
	}

	go func() {
		if err := b.workers.Acquire(ctx, 1); err != nil {
			b.release(need)
			done(nil, err)
			return
		}
		img, err := draw()
		b.workers.Release(1)
		b.release(need)

		done(img, err)
	}()
}
