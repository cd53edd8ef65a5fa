// srccat concatenates byte sources to standard output. Each argument is a
// specifier: a local file path, an http(s) URL, or "-" for standard input.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/streamio-labs/source-reader/config"
	"github.com/streamio-labs/source-reader/source"
)

type Options struct {
	Config  string
	Timeout time.Duration
	Headers []string
	Gzip    bool
	Retry   int
	Output  string
}

func main() {
	Execute(os.Stdout)
}

func Execute(out io.Writer) {
	cmd := BuildCatCommand(out)
	if err := cmd.Execute(); err != nil {
		ExitWithError(err)
	}
}

func ExitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}

func BuildCatCommand(out io.Writer) *cobra.Command {
	options := &Options{}

	cmd := &cobra.Command{
		Use:           "srccat [flags] SPECIFIER...",
		Short:         "Concatenate local files, remote URLs, and stdin",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCatCommand(cmd.Context(), options, out, args)
		},
	}

	cmd.Flags().StringVarP(&options.Config, "config", "c", "", "path to an HCL configuration file")
	cmd.Flags().DurationVarP(&options.Timeout, "timeout", "t", 0, "timeout for remote requests")
	cmd.Flags().StringArrayVarP(&options.Headers, "header", "H", nil, "extra header for remote requests (name=value)")
	cmd.Flags().BoolVarP(&options.Gzip, "gzip", "z", false, "transparently decompress .gz sources")
	cmd.Flags().IntVarP(&options.Retry, "retry", "r", 0, "number of open attempts for failed sources")
	cmd.Flags().StringVarP(&options.Output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}

func RunCatCommand(ctx context.Context, options *Options, out io.Writer, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := &config.Config{}
	if options.Config != "" {
		var err error
		cfg, err = config.Load(options.Config)
		if err != nil {
			return err
		}
	}
	if err := applyFlags(cfg, options); err != nil {
		return err
	}

	opener, err := cfg.Opener()
	if err != nil {
		return err
	}

	if options.Output != "" {
		f, err := os.Create(options.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	for _, arg := range args {
		if err := catSource(ctx, opener, source.Classify(arg), out); err != nil {
			return err
		}
	}
	return nil
}

// applyFlags overrides configuration file values with command-line flags.
func applyFlags(cfg *config.Config, options *Options) error {
	if options.Timeout > 0 {
		cfg.Timeout = options.Timeout.String()
	}
	for _, h := range options.Headers {
		name, value, ok := strings.Cut(h, "=")
		if !ok {
			return fmt.Errorf("invalid header %q, expected name=value", h)
		}
		if cfg.Headers == nil {
			cfg.Headers = map[string]string{}
		}
		cfg.Headers[name] = value
	}
	if options.Gzip && cfg.Gzip == nil {
		cfg.Gzip = &config.GzipConfig{}
	}
	if options.Retry > 0 {
		cfg.Retry = &config.RetryConfig{Attempts: options.Retry}
	}
	return nil
}

func catSource(ctx context.Context, opener source.Opener, src source.Source, out io.Writer) error {
	r, err := opener.Open(ctx, src)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, r)
	if cErr := r.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	return nil
}
