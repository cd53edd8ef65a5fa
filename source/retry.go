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

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/streamio-labs/source-reader/retry"
)

// NewRetryOpener wraps an opener to retry failed opens with a fixed delay
// between attempts. Errors that cannot be fixed by retrying, such as a
// missing file or a denied permission, fail immediately. The context
// cancels the retry loop.
func NewRetryOpener(next Opener, attempts int, delay time.Duration) Opener {
	return &retryOpener{next: next, attempts: attempts, delay: delay}
}

type retryOpener struct {
	next     Opener
	attempts int
	delay    time.Duration
}

// Open implements the Opener interface.
func (r *retryOpener) Open(ctx context.Context, src Source) (io.ReadCloser, error) {
	var rc io.ReadCloser
	var err error
	retry.Try(ctx, func(ctx context.Context) bool {
		rc, err = r.next.Open(ctx, src)
		if err == nil || !isRetryable(err) {
			return retry.Stop
		}
		return retry.TryAgain
	}, r.attempts, r.delay)
	if err == nil && rc == nil {
		// The loop never ran: cancelled context or non-positive attempts.
		if cErr := ctx.Err(); cErr != nil {
			return nil, errRetryOpenerFn(cErr)
		}
		return nil, errRetryOpenerNoAttempts
	}
	if err != nil {
		return nil, errRetryOpenerFn(err)
	}
	return rc, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return false
	}
	var pathErr *fs.PathError
	return !errors.As(err, &pathErr)
}

var errRetryOpenerNoAttempts = errors.New("source.retryOpener: no attempts were made")

func errRetryOpenerFn(err error) error {
	return fmt.Errorf("source.retryOpener: %w", err)
}
