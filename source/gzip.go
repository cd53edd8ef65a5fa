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
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/streamio-labs/source-reader/errutil"
)

const (
	defaultGzipExt       = "gz"
	defaultGzipReadLimit = 1024 * 1024 * 128 // 128MiB
)

type GzipOption func(*gzipOpener)

// WithGzipReadLimit sets the maximum size of the decompressed data.
// If the decompressed data exceeds the limit, the io.ErrUnexpectedEOF error
// will be returned. The default limit is 128MiB.
func WithGzipReadLimit(limit int64) GzipOption {
	return func(g *gzipOpener) {
		g.readLimit = limit
	}
}

// WithGzipCheckExtension enables or disables checking the specifier
// extension to determine whether to decompress the stream. If enabled, only
// sources with the specified extensions will be decompressed. Stdin sources
// have no extension and are never decompressed while the check is enabled.
func WithGzipCheckExtension(check bool) GzipOption {
	return func(g *gzipOpener) {
		g.checkExt = check
	}
}

// WithGzipExtensions sets the list of specifier extensions that will be
// decompressed. The default extension is "gz".
// Ignored if WithGzipCheckExtension is set to false.
func WithGzipExtensions(exts ...string) GzipOption {
	return func(g *gzipOpener) {
		g.exts = exts
	}
}

// NewGzipOpener wraps an opener to add transparent gzip decompression.
func NewGzipOpener(next Opener, opts ...GzipOption) Opener {
	g := &gzipOpener{
		next:      next,
		readLimit: defaultGzipReadLimit,
		checkExt:  true,
		exts:      []string{defaultGzipExt},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type gzipOpener struct {
	next      Opener
	readLimit int64
	checkExt  bool
	exts      []string
}

// Open implements the Opener interface.
func (g *gzipOpener) Open(ctx context.Context, src Source) (io.ReadCloser, error) {
	r, err := g.next.Open(ctx, src)
	if err != nil {
		return nil, errGzipOpenerFn(err)
	}
	if !g.shouldDecompress(src) {
		return r, nil
	}
	gr, err := newGzipReader(r, g.readLimit)
	if err != nil {
		r.Close()
		return nil, errGzipOpenerFn(err)
	}
	return gr, nil
}

func (g *gzipOpener) shouldDecompress(src Source) bool {
	if !g.checkExt {
		return true
	}
	name := src.Spec()
	if src.Kind() == Remote {
		// Extension check applies to the URL path, not the query.
		if u, err := url.Parse(name); err == nil {
			name = u.Path
		}
	}
	for _, ext := range g.exts {
		if strings.HasSuffix(name, "."+ext) {
			return true
		}
	}
	return false
}

type gzipReader struct {
	r   io.ReadCloser
	g   io.ReadCloser
	n   int64 // bytes remaining
	err error
}

func newGzipReader(r io.ReadCloser, n int64) (*gzipReader, error) {
	g, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &gzipReader{r: r, g: g, n: n}, nil
}

// Read implements the io.Reader interface.
func (c *gzipReader) Read(p []byte) (n int, err error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.n <= 0 {
		if _, err := c.g.Read(make([]byte, 1)); errors.Is(err, io.EOF) {
			c.err = io.EOF
			return 0, c.err
		}
		c.err = io.ErrUnexpectedEOF
		return 0, c.err
	}
	if int64(len(p)) > c.n {
		p = p[0:c.n]
	}
	n, err = c.g.Read(p)
	if err != nil {
		c.err = err
	}
	c.n -= int64(n)
	return n, err
}

// Close implements the io.Closer interface.
func (c *gzipReader) Close() error {
	var err error
	if cErr := c.g.Close(); cErr != nil {
		err = errutil.Append(err, cErr)
	}
	if cErr := c.r.Close(); cErr != nil {
		err = errutil.Append(err, cErr)
	}
	return err
}

func errGzipOpenerFn(err error) error {
	return fmt.Errorf("source.gzipOpener: %w", err)
}
