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
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	netURL "net/url"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ErrChecksumMismatch is returned when the streamed bytes do not hash to the
// checksum carried by the specifier.
var ErrChecksumMismatch = errors.New("source.checksumOpener: checksum mismatch")

type ChecksumOption func(*checksumOpener)

// WithChecksumParamName sets the name of the query parameter that carries
// the checksum value. The default parameter name is "checksum".
func WithChecksumParamName(name string) ChecksumOption {
	return func(c *checksumOpener) {
		c.param = name
	}
}

// WithChecksumHash sets the hash function used to compute the checksum. The
// default hash function is SHA3-256.
func WithChecksumHash(hash func() hash.Hash) ChecksumOption {
	return func(c *checksumOpener) {
		c.hash = hash
	}
}

// NewChecksumOpener wraps an opener to verify stream contents against a
// checksum carried by the specifier as a query parameter, e.g.
// "file?checksum=1234...". The parameter is stripped before the source is
// opened, the checksum is computed on the fly while reading, and a mismatch
// is reported when the stream ends. Specifiers without the parameter pass
// through unverified.
func NewChecksumOpener(next Opener, opts ...ChecksumOption) Opener {
	c := &checksumOpener{next: next}
	for _, opt := range opts {
		opt(c)
	}
	if c.param == "" {
		c.param = "checksum"
	}
	if c.hash == nil {
		c.hash = sha3.New256
	}
	return c
}

type checksumOpener struct {
	next  Opener
	hash  func() hash.Hash
	param string
}

// Open implements the Opener interface.
func (c *checksumOpener) Open(ctx context.Context, src Source) (io.ReadCloser, error) {
	src, sum := c.checksumParam(src)
	r, err := c.next.Open(ctx, src)
	if err != nil {
		return nil, errChecksumOpenerFn(err)
	}
	if sum == nil {
		return r, nil
	}
	return &checksumReader{r: r, checksum: sum, hash: c.hash()}, nil
}

// checksumParam extracts the checksum value from the specifier and returns
// the source with the checksum parameter removed. Stdin sources have no
// specifier to carry a parameter and pass through unchanged.
func (c *checksumOpener) checksumParam(src Source) (Source, []byte) {
	if src.Kind() == Stdin {
		return src, nil
	}
	name := src.Spec()
	q := strings.Index(name, "?")
	if q == -1 {
		return src, nil
	}
	v, err := netURL.ParseQuery(name[q+1:])
	if err != nil {
		return src, nil
	}
	sum, err := hex.DecodeString(v.Get(c.param))
	if err != nil || len(sum) == 0 {
		return src, nil
	}
	v.Del(c.param)
	if len(v) == 0 {
		name = name[:q]
	} else {
		name = name[:q] + "?" + v.Encode()
	}
	return Source{kind: src.Kind(), spec: name}, sum
}

// checksumReader computes the checksum of the stream contents on the fly
// and compares it with the known checksum when the read reaches the end of
// the stream.
type checksumReader struct {
	r        io.ReadCloser
	hash     hash.Hash
	checksum []byte
	failed   bool
}

// Read implements the io.Reader interface.
func (c *checksumReader) Read(p []byte) (int, error) {
	if c.failed {
		return 0, ErrChecksumMismatch
	}
	n, err := c.r.Read(p)
	c.hash.Write(p[:n])
	if errors.Is(err, io.EOF) {
		if !bytes.Equal(c.checksum, c.hash.Sum(nil)) {
			c.failed = true
			return n, ErrChecksumMismatch
		}
	}
	return n, err
}

// Close implements the io.Closer interface.
func (c *checksumReader) Close() error {
	return c.r.Close()
}

func errChecksumOpenerFn(err error) error {
	return fmt.Errorf("source.checksumOpener: %w", err)
}
