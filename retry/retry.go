// Copyright (C) 2024-2025 Streamio Labs, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package retry provides a context-aware retry loop with a fixed delay
// between attempts.
package retry

import (
	"context"
	"time"
)

const (
	TryAgain = false
	Stop     = true
)

// Try will call the function f until it returns Stop, the attempts are
// exhausted, or the context is done. If attempts is negative, Try will try
// forever.
func Try(ctx context.Context, f func(context.Context) bool, attempts int, delay time.Duration) (ok bool) {
	for i := 0; attempts < 0 || i < attempts; i++ {
		if ctx.Err() != nil {
			return false
		}
		if f(ctx) {
			return true
		}
		if attempts < 0 || i+1 < attempts {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
			case <-t.C:
			}
			t.Stop()
		}
	}
	return false
}

// TryErr will call the function f until it returns no error, the attempts
// are exhausted, or the context is done.
func TryErr(ctx context.Context, f func(context.Context) error, attempts int, delay time.Duration) (err error) {
	Try(ctx, func(ctx context.Context) bool {
		err = f(ctx)
		return err == nil
	}, attempts, delay)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Try1Err is a helper function that simplifies the common case of retrying
// a function that returns a single value and an error.
func Try1Err[T any](ctx context.Context, f func(context.Context) (T, error), attempts int, delay time.Duration) (res T, err error) {
	Try(ctx, func(ctx context.Context) bool {
		res, err = f(ctx)
		return err == nil
	}, attempts, delay)
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, err
}
