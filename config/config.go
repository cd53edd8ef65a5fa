// Package config loads reader configuration from HCL files and turns it
// into source options and a fully layered opener.
//
// Example configuration:
//
//	timeout    = "30s"
//	user_agent = "source-reader"
//	headers    = { "Accept" = "application/octet-stream" }
//	cache_dir  = env("XDG_CACHE_HOME")
//
//	verify_checksums = true
//
//	retry {
//	  attempts = 3
//	  delay    = "1s"
//	}
//
//	gzip {
//	  extensions = ["gz", "gzip"]
//	}
package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/streamio-labs/source-reader/source"
)

// Config is the decoded reader configuration. All fields are optional;
// the zero value configures nothing beyond the base opener defaults.
type Config struct {
	// Timeout bounds the entire remote request, e.g. "30s".
	Timeout string `hcl:"timeout,optional"`

	// UserAgent is sent with remote requests.
	UserAgent string `hcl:"user_agent,optional"`

	// Headers are extra headers sent with remote requests.
	Headers map[string]string `hcl:"headers,optional"`

	// CacheDir enables the on-disk cache for remote sources. The string
	// "default" selects the user cache directory.
	CacheDir string `hcl:"cache_dir,optional"`

	// VerifyChecksums enables verification of the "checksum" query
	// parameter carried by specifiers. Checksums apply to the bytes as
	// read, after any gzip decompression.
	VerifyChecksums bool `hcl:"verify_checksums,optional"`

	Retry *RetryConfig `hcl:"retry,block"`
	Gzip  *GzipConfig  `hcl:"gzip,block"`
}

// RetryConfig configures open retries.
type RetryConfig struct {
	Attempts int    `hcl:"attempts"`
	Delay    string `hcl:"delay,optional"`
}

// GzipConfig enables transparent gzip decompression.
type GzipConfig struct {
	Extensions []string `hcl:"extensions,optional"`
	ReadLimit  int64    `hcl:"read_limit,optional"`
}

// Load reads and decodes an HCL configuration file.
func Load(path string) (*Config, error) {
	f, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errConfigFn(diags)
	}
	return decode(f.Body)
}

// Parse decodes HCL configuration from a byte slice. The filename is used
// only in diagnostics.
func Parse(filename string, src []byte) (*Config, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errConfigFn(diags)
	}
	return decode(f.Body)
}

func decode(body hcl.Body) (*Config, error) {
	c := &Config{}
	if diags := gohcl.DecodeBody(body, evalContext(), c); diags.HasErrors() {
		return nil, errConfigFn(diags)
	}
	return c, nil
}

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": Env(),
		},
	}
}

// Options converts the configuration into base opener options.
func (c *Config) Options() ([]source.Option, error) {
	var opts []source.Option
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, errConfigTimeoutFn(err)
		}
		opts = append(opts, source.WithTimeout(d))
	}
	if c.UserAgent != "" {
		opts = append(opts, source.WithUserAgent(c.UserAgent))
	}
	for name, value := range c.Headers {
		opts = append(opts, source.WithHeader(name, value))
	}
	return opts, nil
}

// Opener builds the fully layered opener the configuration describes:
// base, then the cache, then gzip, then checksum verification, then
// retries. Extra options are applied to the base opener.
func (c *Config) Opener(extra ...source.Option) (source.Opener, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	o := source.NewOpener(append(opts, extra...)...)
	if c.CacheDir != "" {
		var copts []source.CacheOption
		if c.CacheDir != "default" {
			copts = append(copts, source.WithCacheDir(c.CacheDir))
		}
		o, err = source.NewCacheOpener(o, copts...)
		if err != nil {
			return nil, err
		}
	}
	if c.Gzip != nil {
		var gopts []source.GzipOption
		if len(c.Gzip.Extensions) > 0 {
			gopts = append(gopts, source.WithGzipExtensions(c.Gzip.Extensions...))
		}
		if c.Gzip.ReadLimit > 0 {
			gopts = append(gopts, source.WithGzipReadLimit(c.Gzip.ReadLimit))
		}
		o = source.NewGzipOpener(o, gopts...)
	}
	if c.VerifyChecksums {
		o = source.NewChecksumOpener(o)
	}
	if c.Retry != nil && c.Retry.Attempts > 0 {
		delay := time.Second
		if c.Retry.Delay != "" {
			delay, err = time.ParseDuration(c.Retry.Delay)
			if err != nil {
				return nil, errConfigDelayFn(err)
			}
		}
		o = source.NewRetryOpener(o, c.Retry.Attempts, delay)
	}
	return o, nil
}

func errConfigFn(err error) error {
	return fmt.Errorf("config: %w", err)
}

func errConfigTimeoutFn(err error) error {
	return fmt.Errorf("config: invalid timeout: %w", err)
}

func errConfigDelayFn(err error) error {
	return fmt.Errorf("config: invalid retry delay: %w", err)
}
