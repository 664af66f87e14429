package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	wireschema "github.com/opik-go/wireschema"
	"github.com/opik-go/wireschema/dsl"
	"github.com/opik-go/wireschema/registry"
)

type rootFlags struct {
	configPath  string
	verbose     bool
	format      string
	inputFormat string
	stdJSON     bool
}

func newRootCmd(reg *registry.Registry) *cobra.Command {
	f := &rootFlags{}
	var opts wireschema.Options
	var logger *slog.Logger

	rootCmd := &cobra.Command{
		Use:           "wireschema",
		Short:         "Validate and convert API wire payloads",
		Long:          "wireschema parses JSON or YAML payloads against the registered API types, re-serializes them and exports their JSON Schema.",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if f.verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if f.configPath != "" {
				o, err := wireschema.LoadOptions(f.configPath)
				if err != nil {
					return err
				}
				opts = o
				logger.Debug("loaded options", "path", f.configPath)
			}
			if f.stdJSON {
				wireschema.SetJSONDriver(wireschema.StdJSONDriver())
			}
			logger.Debug("json driver", "name", wireschema.CurrentJSONDriver().Name())
			switch f.format {
			case "json", "yaml":
			default:
				return fmt.Errorf("unsupported output format %q", f.format)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "YAML file with parse/serialize options")
	rootCmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&f.format, "format", "o", "json", "Output format (json|yaml)")
	rootCmd.PersistentFlags().StringVarP(&f.inputFormat, "input", "i", "json", "Input format (json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&f.stdJSON, "std-json", false, "Decode JSON with encoding/json instead of go-json")

	var dump bool
	var jobs int
	validateCmd := &cobra.Command{
		Use:     "validate TYPE [FILE...]",
		Aliases: []string{"parse"},
		Short:   "Validate payloads against a type",
		Long:    "Validate one payload from stdin, or several files concurrently. Results are printed in argument order.",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			files := args[1:]
			if len(files) <= 1 {
				v, err := parseInput(cmd, entry, files, f, opts.Parse, logger)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				if dump {
					fmt.Fprint(cmd.OutOrStdout(), spew.Sdump(v))
				}
				return nil
			}
			return validateFiles(cmd, entry, files, jobs, f, opts.Parse, logger)
		},
	}
	validateCmd.Flags().BoolVar(&dump, "dump", false, "Print the parsed Go value")
	validateCmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Files validated in parallel")

	roundtripCmd := &cobra.Command{
		Use:   "roundtrip TYPE [FILE]",
		Short: "Parse a payload and write it back in canonical wire form",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			v, err := parseInput(cmd, entry, args[1:], f, opts.Parse, logger)
			if err != nil {
				return err
			}
			raw, err := entry.Serialize(cmd.Context(), v, opts.Serialize)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), f.format, raw)
		},
	}

	jsonSchemaCmd := &cobra.Command{
		Use:   "jsonschema TYPE",
		Short: "Print the JSON Schema of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			s, err := entry.JSONSchema()
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), f.format, s)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range reg.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	rootCmd.AddCommand(validateCmd, roundtripCmd, jsonSchemaCmd, listCmd)
	return rootCmd
}

// validateFiles parses every file concurrently and reports per-file status.
func validateFiles(cmd *cobra.Command, entry registry.Entry, files []string, jobs int, f *rootFlags, opt wireschema.ParseOpt, logger *slog.Logger) error {
	results := make([]error, len(files))
	var eg errgroup.Group
	eg.SetLimit(max(jobs, 1))
	for i, file := range files {
		eg.Go(func() error {
			var issues bytes.Buffer
			_, err := parseFile(cmd.Context(), entry, file, f.inputFormat, opt, &issues, logger)
			if err != nil {
				results[i] = fmt.Errorf("%s: %w\n%s", file, err, strings.TrimRight(issues.String(), "\n"))
			}
			return nil
		})
	}
	_ = eg.Wait()
	failed := 0
	for i, file := range files {
		if results[i] != nil {
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), results[i])
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", file)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) invalid", failed, len(files))
	}
	return nil
}

func parseFile(ctx context.Context, entry registry.Entry, path, format string, opt wireschema.ParseOpt, issues io.Writer, logger *slog.Logger) (any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()
	return parseReader(ctx, entry, file, format, opt, issues, logger)
}

func parseInput(cmd *cobra.Command, entry registry.Entry, files []string, f *rootFlags, opt wireschema.ParseOpt, logger *slog.Logger) (any, error) {
	if len(files) == 1 && files[0] != "-" {
		return parseFile(cmd.Context(), entry, files[0], f.inputFormat, opt, cmd.ErrOrStderr(), logger)
	}
	return parseReader(cmd.Context(), entry, cmd.InOrStdin(), f.inputFormat, opt, cmd.ErrOrStderr(), logger)
}

func parseReader(ctx context.Context, entry registry.Entry, r io.Reader, format string, opt wireschema.ParseOpt, issues io.Writer, logger *slog.Logger) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opt.Warnings = func(it wireschema.Issue) {
		logger.Warn("input warning", "path", it.Path, "code", it.Code, "message", it.Message)
	}
	raw, err := readRaw(ctx, r, format, opt)
	if err != nil {
		return nil, describe(issues, err)
	}
	v, err := entry.Parse(ctx, raw, opt)
	if err != nil {
		return nil, describe(issues, err)
	}
	logger.Debug("parsed payload", "type", entry.Name())
	return v, nil
}

// readRaw decodes the input document into a raw tree with the token-level
// options applied.
func readRaw(ctx context.Context, r io.Reader, format string, opt wireschema.ParseOpt) (any, error) {
	passthrough := dsl.Any()
	switch format {
	case "json":
		return wireschema.ParseReader(ctx, passthrough, r, opt)
	case "yaml":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return wireschema.ParseYAML(ctx, passthrough, data, opt)
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
}

// describe prints every issue of err and returns a short summary error.
func describe(w io.Writer, err error) error {
	iss, ok := wireschema.AsIssues(err)
	if !ok {
		return err
	}
	for _, it := range iss {
		fmt.Fprintf(w, "%s\t%s\t%s\n", it.Path, it.Code, it.Message)
		for i, alt := range it.Alternatives {
			for _, a := range alt {
				fmt.Fprintf(w, "  alternative %d: %s\t%s\t%s\n", i, a.Path, a.Code, a.Message)
			}
		}
	}
	return fmt.Errorf("invalid payload: %d issue(s)", len(iss))
}

func write(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlReady(v)); err != nil {
			return err
		}
		return enc.Close()
	default:
		b, err := gojson.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
}

// yamlReady replaces json.Number leaves so YAML renders them as numbers.
func yamlReady(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return string(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = yamlReady(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = yamlReady(e)
		}
		return out
	default:
		return v
	}
}
