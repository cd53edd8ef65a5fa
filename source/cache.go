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
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
)

type CacheOption func(*cacheOpener)

// WithCacheDir sets the cache directory.
func WithCacheDir(dir string) CacheOption {
	return func(c *cacheOpener) {
		c.dir = dir
	}
}

// NewCacheOpener wraps an opener to cache the contents of Remote sources on
// local disk, keyed by the URL. A cached source is served from disk without
// touching the network. Local and Stdin sources pass through uncached.
//
// The default cache directory is "source-reader" under os.UserCacheDir.
func NewCacheOpener(next Opener, opts ...CacheOption) (Opener, error) {
	c := &cacheOpener{next: next}
	for _, opt := range opts {
		opt(c)
	}
	if c.dir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, errCacheOpenerFn(err)
		}
		dir = path.Join(dir, "source-reader")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errCacheOpenerFn(err)
		}
		c.dir = dir
	}
	return c, nil
}

type cacheOpener struct {
	next Opener
	dir  string
}

// Open implements the Opener interface.
func (c *cacheOpener) Open(ctx context.Context, src Source) (io.ReadCloser, error) {
	if src.Kind() != Remote {
		return c.next.Open(ctx, src)
	}
	if f, err := os.Open(c.cachePath(src.Spec())); err == nil {
		return f, nil
	}
	r, err := c.next.Open(ctx, src)
	if err != nil {
		return nil, errCacheOpenerFn(err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		r.Close()
		return nil, errCacheOpenerFn(err)
	}
	if err := r.Close(); err != nil {
		return nil, errCacheOpenerFn(err)
	}
	if err := c.cacheWrite(src.Spec(), b); err != nil {
		return nil, errCacheOpenerFn(err)
	}
	f, err := os.Open(c.cachePath(src.Spec()))
	if err != nil {
		return nil, errCacheOpenerFn(err)
	}
	return f, nil
}

func (c *cacheOpener) cacheWrite(name string, content []byte) error {
	f, err := os.Create(c.cachePath(name))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(content)
	return err
}

func (c *cacheOpener) cachePath(name string) string {
	hash := sha1.New()
	hash.Write([]byte(name))
	return path.Join(c.dir, hex.EncodeToString(hash.Sum(nil)))
}

func errCacheOpenerFn(err error) error {
	return fmt.Errorf("source.cacheOpener: %w", err)
}
