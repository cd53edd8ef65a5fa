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
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLocal(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "example.txt")
	require.NoError(t, os.WriteFile(path, []byte{0x41, 0x42, 0x43}, 0644))

	src := Classify(path)
	require.Equal(t, Local, src.Kind())

	r, err := src.Open(ctx)
	require.NoError(t, err)

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, []byte{0x41, 0x42, 0x43}, b)
}

func TestOpenLocalNotExist(t *testing.T) {
	ctx := context.Background()

	src := Classify(filepath.Join(t.TempDir(), "missing.txt"))
	_, err := src.Open(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var pathErr *fs.PathError
	assert.ErrorAs(t, err, &pathErr)
}

func TestOpenLocalDirectory(t *testing.T) {
	ctx := context.Background()

	// Opening a directory may succeed at the OS level; reading it must not.
	_, err := ReadAll(ctx, Classify(t.TempDir()))
	require.Error(t, err)
}

func TestOpenStdin(t *testing.T) {
	ctx := context.Background()

	src := Classify("-")
	require.Equal(t, Stdin, src.Kind())

	r, err := src.Open(ctx, WithStdin(strings.NewReader("hello")))
	require.NoError(t, err)

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	// The handle is non-owning, closing it is a no-op.
	require.NoError(t, r.Close())
}

func TestOpenStdinDefault(t *testing.T) {
	ctx := context.Background()

	// Opening stdin never fails, even without an injected reader.
	r, err := Classify("-").Open(ctx)
	require.NoError(t, err)
	require.NoError(t, r.Close())
}

func TestReadAll(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0644))

	b, err := ReadAll(ctx, FromPath(path))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
}

func TestOpenFirst(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("fallback"), 0644))

	t.Run("first failure falls through", func(t *testing.T) {
		r, err := OpenFirst(ctx, NewOpener(),
			FromPath(filepath.Join(dir, "missing.txt")),
			FromPath(good),
		)
		require.NoError(t, err)
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, "fallback", string(b))
	})

	t.Run("all fail", func(t *testing.T) {
		_, err := OpenFirst(ctx, NewOpener(),
			FromPath(filepath.Join(dir, "a.txt")),
			FromPath(filepath.Join(dir, "b.txt")),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("no sources", func(t *testing.T) {
		_, err := OpenFirst(ctx, NewOpener())
		require.Error(t, err)
	})
}

func TestOpenerIsStateless(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "x")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	o := NewOpener()
	for i := 0; i < 3; i++ {
		r, err := o.Open(ctx, FromPath(path))
		require.NoError(t, err)
		require.NoError(t, r.Close())
	}
}
