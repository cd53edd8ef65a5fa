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
	"io"
	"net/http"
	"time"
)

// Option configures the base opener. Options that only apply to Remote
// sources are ignored when opening Local and Stdin sources.
type Option func(*opener)

// WithHTTPClient sets the HTTP client used to perform remote requests.
// The default is http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(o *opener) {
		o.client = client
	}
}

// WithTimeout bounds the entire remote request, body reads included. The
// default is no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *opener) {
		o.timeout = d
	}
}

// WithHeaders sets the headers sent with remote requests. The default is no
// extra headers.
func WithHeaders(h http.Header) Option {
	return func(o *opener) {
		o.headers = h.Clone()
	}
}

// WithHeader adds a single header sent with remote requests.
func WithHeader(name, value string) Option {
	return func(o *opener) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Add(name, value)
	}
}

// WithUserAgent sets the User-Agent header sent with remote requests.
func WithUserAgent(ua string) Option {
	return func(o *opener) {
		o.userAgent = ua
	}
}

// WithStdin sets the reader returned for Stdin sources. The default is
// os.Stdin.
func WithStdin(r io.Reader) Option {
	return func(o *opener) {
		o.stdin = r
	}
}
