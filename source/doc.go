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

// Package source resolves an input specifier into one of three byte
// sources - a local file path, a remote http(s) URL, or standard input -
// and opens it as a sequential byte stream.
//
// Classification is a pure transform: the "-" sentinel maps to Stdin, an
// absolute http or https URL maps to Remote, and everything else maps to
// Local. Opening acquires the actual resource and returns an io.ReadCloser
// that owns it.
//
// Example:
//
//	src := source.Classify("https://example.com/data.txt")
//	r, err := src.Open(ctx, source.WithTimeout(30*time.Second))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	b, err := io.ReadAll(r)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(string(b))
//
// Openers compose: the Opener interface has decorators that add gzip
// decompression, checksum verification, open retries, and a local disk
// cache for remote sources.
//
// Failures to open a Local source wrap the *fs.PathError reported by the
// OS; failures to open a Remote source are reported as *RemoteError.
// Opening Stdin never fails. Nothing is retried or logged unless a
// decorator is asked for; errors are returned to the caller as values.
package source
