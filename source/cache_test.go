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
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheOpenerRemote(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	url := "https://example.com/file"
	mock := &mockOpener{data: map[string][]byte{url: []byte("cached body")}}

	o, err := NewCacheOpener(mock, WithCacheDir(dir))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		r, err := o.Open(ctx, Classify(url))
		require.NoError(t, err)
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, "cached body", string(b))
	}

	// Only the first open reaches the wrapped opener.
	assert.Equal(t, 1, mock.calls)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCacheOpenerLocalPassthrough(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	path := filepath.Join(t.TempDir(), "local.txt")
	require.NoError(t, os.WriteFile(path, []byte("local body"), 0644))

	o, err := NewCacheOpener(NewOpener(), WithCacheDir(dir))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		r, err := o.Open(ctx, FromPath(path))
		require.NoError(t, err)
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, "local body", string(b))
	}

	// Local sources are never cached.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCacheOpenerMissFailure(t *testing.T) {
	ctx := context.Background()

	o, err := NewCacheOpener(&mockOpener{}, WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	_, err = o.Open(ctx, Classify("https://example.com/missing"))
	require.Error(t, err)
}

func TestCacheOpenerDistinctURLs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	mock := &mockOpener{data: map[string][]byte{
		"https://example.com/a": []byte("aaa"),
		"https://example.com/b": []byte("bbb"),
	}}

	o, err := NewCacheOpener(mock, WithCacheDir(dir))
	require.NoError(t, err)

	for url, want := range map[string]string{
		"https://example.com/a": "aaa",
		"https://example.com/b": "bbb",
	} {
		r, err := o.Open(ctx, Classify(url))
		require.NoError(t, err)
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, want, string(b))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
