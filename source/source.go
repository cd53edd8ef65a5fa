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
	"net/url"
)

// StdinSentinel is the specifier that designates the process's standard
// input stream.
const StdinSentinel = "-"

// Kind identifies the variant of a Source.
type Kind uint8

const (
	// Local is a path on the local filesystem.
	Local Kind = iota

	// Remote is an absolute http or https URL.
	Remote

	// Stdin is the process's standard input stream.
	Stdin
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case Remote:
		return "remote"
	case Stdin:
		return "stdin"
	}
	return "unknown"
}

// Source is an immutable description of where bytes will come from. It is
// one of three variants: a local file path, a remote URL, or standard input.
//
// The zero value is a Local source with an empty path.
type Source struct {
	kind Kind
	spec string
}

// Classify resolves a specifier string into a Source. It is pure and total:
// every specifier maps to exactly one variant and classification never
// fails.
//
// The decision order is:
//   - the exact string "-" is Stdin,
//   - a string that parses as an absolute URL with scheme "http" or "https"
//     and a non-empty host is Remote,
//   - everything else, including malformed or non-network URLs, is Local.
func Classify(spec string) Source {
	if spec == StdinSentinel {
		return Source{kind: Stdin}
	}
	if isRemoteSpec(spec) {
		return Source{kind: Remote, spec: spec}
	}
	return Source{kind: Local, spec: spec}
}

// FromPath creates a Local source for the given filesystem path. Unlike
// Classify, the path is never reinterpreted: "-" and URL-shaped strings stay
// local paths.
func FromPath(path string) Source {
	return Source{kind: Local, spec: path}
}

// Kind returns the variant of the source.
func (s Source) Kind() Kind {
	return s.kind
}

// Spec returns the exact specifier the source carries: the path for Local,
// the URL for Remote, and an empty string for Stdin.
func (s Source) Spec() string {
	return s.spec
}

// String implements the fmt.Stringer interface.
func (s Source) String() string {
	if s.kind == Stdin {
		return StdinSentinel
	}
	return s.spec
}

// isRemoteSpec reports whether the specifier is an absolute URL with a
// supported network scheme. Only http and https are recognized; anything
// else falls through to the local filesystem.
func isRemoteSpec(spec string) bool {
	u, err := url.Parse(spec)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
