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
	"fmt"
	"io"
	"io/fs"
	"net/http"
)

// RemoteError describes a failure to open a Remote source. A zero
// StatusCode means the request never produced a response (DNS, TLS,
// connection, or timeout failure).
type RemoteError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("source.httpOpener: %s: unexpected status code: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("source.httpOpener: %s: %s", e.URL, e.Err)
}

// Unwrap returns the underlying error, if any.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// openRemote performs a blocking GET and returns the streaming response
// body. The body is not pre-buffered.
func (o *opener) openRemote(ctx context.Context, url string) (io.ReadCloser, error) {
	cancel := context.CancelFunc(nil)
	if o.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
	}
	body, err := o.doGet(ctx, url)
	if err != nil {
		if cancel != nil {
			cancel()
		}
		return nil, err
	}
	if cancel == nil {
		return body, nil
	}
	return &remoteBody{ReadCloser: body, cancel: cancel}, nil
}

func (o *opener) doGet(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RemoteError{URL: url, Err: err}
	}
	for name, values := range o.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if o.userAgent != "" {
		req.Header.Set("User-Agent", o.userAgent)
	}
	client := o.client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, &RemoteError{URL: url, Err: err}
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		// Use fs package errors when possible to increase compatibility.
		switch res.StatusCode {
		case http.StatusNotFound:
			return nil, &RemoteError{URL: url, StatusCode: res.StatusCode, Err: fs.ErrNotExist}
		case http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusForbidden:
			return nil, &RemoteError{URL: url, StatusCode: res.StatusCode, Err: fs.ErrPermission}
		}
		return nil, &RemoteError{URL: url, StatusCode: res.StatusCode}
	}
	return res.Body, nil
}

// remoteBody releases the deadline timer when the body is closed. The
// deadline stays armed while the body is being read; a timeout mid-read
// surfaces as a read error from the transport.
type remoteBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

// Close implements the io.Closer interface.
func (b *remoteBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
