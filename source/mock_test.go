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
	"compress/gzip"
	"context"
	"io"
	"io/fs"
)

// mockOpener serves in-memory data keyed by the exact specifier. Unknown
// specifiers fail with fs.ErrNotExist. It counts Open calls.
type mockOpener struct {
	data  map[string][]byte
	errs  map[string]error
	calls int
}

func (m *mockOpener) Open(_ context.Context, src Source) (io.ReadCloser, error) {
	m.calls++
	if err, ok := m.errs[src.Spec()]; ok {
		return nil, err
	}
	b, ok := m.data[src.Spec()]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: src.Spec(), Err: fs.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func gzipData(data []byte) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
