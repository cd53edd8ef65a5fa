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

// Package errutil provides helpers for combining and handling errors.
package errutil

import (
	"strings"
)

// Append combines the provided error with a list of errors. Nil errors are
// skipped; MultiError values on either side are flattened.
func Append(err error, errs ...error) error {
	var m MultiError
	if err != nil {
		if e, ok := err.(MultiError); ok {
			m = e
		} else {
			m = MultiError{err}
		}
	}
	for _, e := range errs {
		if e == nil {
			continue
		}
		if em, ok := e.(MultiError); ok {
			m = append(m, em...)
		} else {
			m = append(m, e)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	default:
		return m
	}
}

// MultiError is a collection of errors.
type MultiError []error

// Error implements the error interface.
func (m MultiError) Error() string {
	if len(m) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("following errors occurred: [")
	for i, err := range m {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(err.Error())
	}
	b.WriteString("]")
	return b.String()
}

// Unwrap unwraps all errors.
func (m MultiError) Unwrap() []error {
	return m
}

// Must is a helper function that panics when the error is not nil.
// Otherwise, it returns the first argument. It is intended for use with
// functions that should never return an error when called.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
