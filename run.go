/*
Copyright © 2024 the SYNAER authors.
This file is part of SYNAER.

SYNAER is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SYNAER is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SYNAER.  If not, see <http://www.gnu.org/licenses/>.
*/

package synaer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// PixelFunc retrieves a single pixel. It must not modify p.
type PixelFunc func(p *Pixel) Result

// WorkerFactory returns a PixelFunc that owns its scratch space. It is
// called once for each worker goroutine, so the returned function never
// runs concurrently with itself.
type WorkerFactory func() PixelFunc

// Calculations concurrently runs the workers created by newWorker on all
// of the pixels and returns one Result per pixel, in pixel order.
// If nprocs < 1, GOMAXPROCS workers are used. Cancelling ctx stops the
// calculation between pixels and returns the context's error.
func Calculations(ctx context.Context, pixels []Pixel, nprocs int, newWorker WorkerFactory) ([]Result, error) {
	if nprocs < 1 {
		nprocs = runtime.GOMAXPROCS(0)
	}
	if nprocs > len(pixels) {
		nprocs = len(pixels)
	}
	results := make([]Result, len(pixels))
	g, ctx := errgroup.WithContext(ctx)
	for pp := 0; pp < nprocs; pp++ {
		pp := pp
		g.Go(func() error {
			retrieve := newWorker()
			for ii := pp; ii < len(pixels); ii += nprocs {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				results[ii] = retrieve(&pixels[ii])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
