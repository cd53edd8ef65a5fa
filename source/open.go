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
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/streamio-labs/source-reader/errutil"
)

// Opener opens a Source as a sequential byte stream. The returned
// io.ReadCloser exclusively owns the underlying resource; closing it
// releases the file descriptor or network connection.
type Opener interface {
	Open(ctx context.Context, src Source) (io.ReadCloser, error)
}

// NewOpener creates the base opener that dispatches on the source variant:
// Local sources are opened with os.Open, Remote sources are fetched with a
// blocking HTTP GET, and Stdin sources return a non-owning handle to the
// process's standard input.
func NewOpener(opts ...Option) Opener {
	o := &opener{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type opener struct {
	client    *http.Client
	timeout   time.Duration
	headers   http.Header
	userAgent string
	stdin     io.Reader
}

// Open implements the Opener interface.
func (o *opener) Open(ctx context.Context, src Source) (io.ReadCloser, error) {
	switch src.Kind() {
	case Local:
		f, err := os.Open(src.Spec())
		if err != nil {
			return nil, errOpenerFn(err)
		}
		return f, nil
	case Remote:
		return o.openRemote(ctx, src.Spec())
	case Stdin:
		r := o.stdin
		if r == nil {
			r = os.Stdin
		}
		// Closing the handle must not close process stdin.
		return io.NopCloser(r), nil
	}
	return nil, errOpenerUnknownKindFn(src.Kind())
}

// Open opens the source with a one-off base opener. It is shorthand for
// NewOpener(opts...).Open(ctx, s).
func (s Source) Open(ctx context.Context, opts ...Option) (io.ReadCloser, error) {
	return NewOpener(opts...).Open(ctx, s)
}

// ReadAll opens the source and reads it to the end.
func ReadAll(ctx context.Context, src Source, opts ...Option) ([]byte, error) {
	r, err := src.Open(ctx, opts...)
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(r)
	if cErr := r.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		return nil, errReadAllFn(err)
	}
	return b, nil
}

// OpenFirst tries the sources in order using the given opener and returns
// the first stream that opens. If all sources fail, the accumulated errors
// are returned as one.
func OpenFirst(ctx context.Context, o Opener, srcs ...Source) (io.ReadCloser, error) {
	var err error
	for _, src := range srcs {
		r, oErr := o.Open(ctx, src)
		if oErr == nil {
			return r, nil
		}
		err = errutil.Append(err, oErr)
	}
	if err == nil {
		err = errOpenFirstNoSources
	}
	return nil, errOpenFirstFn(err)
}

var errOpenFirstNoSources = fmt.Errorf("no sources given")

func errOpenerFn(err error) error {
	return fmt.Errorf("source.opener: %w", err)
}

func errOpenerUnknownKindFn(k Kind) error {
	return fmt.Errorf("source.opener: unknown source kind: %d", k)
}

func errReadAllFn(err error) error {
	return fmt.Errorf("source.ReadAll: %w", err)
}

func errOpenFirstFn(err error) error {
	return fmt.Errorf("source.OpenFirst: %w", err)
}
