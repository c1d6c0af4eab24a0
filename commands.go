package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chazu/cubetree/pkg/config"
	"github.com/chazu/cubetree/pkg/reactor"
	"github.com/chazu/cubetree/pkg/regiontree"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// options holds the global flags and the App built from them.
type options struct {
	configPath string
	verbose    bool
	app        *App
}

// setup loads configuration and builds the App. It runs before every
// command except version.
func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	o.app = NewApp(cfg, buildLogger(cfg, o.verbose, cmd.ErrOrStderr()))
	return nil
}

// part resolves a --part flag value; zero selects the configured default.
func (o *options) part(n int) (reactor.Part, error) {
	if n == 0 {
		return o.app.DefaultPart(), nil
	}
	return reactor.ParsePart(n)
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "cubetree",
		Short: "Count the cells left on after a reactor reboot",
		Long: `cubetree folds a sequence of on/off cuboid steps into a persistent
region tree and reports how many unit cells are on.

Commands:
  run       Reboot one or more text step files
  script    Reboot from a Lisp script
  verify    Cross-check the tree against a voxel grid
  stats     Show the shape of the final tree
  mesh      Write triangle meshes of the final tree`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default cubetree.yaml in . or ./config)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newRunCommand(opts))
	rootCmd.AddCommand(newScriptCommand(opts))
	rootCmd.AddCommand(newVerifyCommand(opts))
	rootCmd.AddCommand(newStatsCommand(opts))
	rootCmd.AddCommand(newMeshCommand(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// Version needs no configuration.
		PersistentPreRun: func(_ *cobra.Command, _ []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cubetree %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// fileResult is one line of run output.
type fileResult struct {
	Path  string `json:"path" yaml:"path"`
	Part  int    `json:"part" yaml:"part"`
	Steps int    `json:"steps" yaml:"steps"`
	Total int64  `json:"total" yaml:"total"`
}

func newRunCommand(opts *options) *cobra.Command {
	var (
		partFlag int
		script   bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Reboot one or more step files and print the on-count of each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			part, err := opts.part(partFlag)
			if err != nil {
				return err
			}
			if err := checkFormat(format); err != nil {
				return err
			}

			results := make([]fileResult, 0, len(args))
			for _, path := range args {
				start := time.Now()

				steps, err := opts.app.Load(path, script)
				if err != nil {
					return err
				}
				tree, err := opts.app.Reboot(steps, part)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				res := fileResult{Path: path, Part: int(part), Steps: len(steps), Total: regiontree.Total(tree)}
				opts.app.log.Info("reboot complete",
					"path", path,
					"part", res.Part,
					"total", humanize.Comma(res.Total),
					"elapsed", time.Since(start))
				results = append(results, res)
			}

			return writeResults(cmd.OutOrStdout(), format, results)
		},
	}

	cmd.Flags().IntVar(&partFlag, "part", 0, "1 clamps to the initialization area, 2 uses the whole reactor (default from config)")
	cmd.Flags().BoolVar(&script, "script", false, "treat files as Lisp scripts")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")

	return cmd
}

func newScriptCommand(opts *options) *cobra.Command {
	var (
		partFlag int
		format   string
	)

	cmd := &cobra.Command{
		Use:   "script FILE",
		Short: "Evaluate a Lisp reboot script and print the on-count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			part, err := opts.part(partFlag)
			if err != nil {
				return err
			}
			if err := checkFormat(format); err != nil {
				return err
			}

			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			result := opts.app.Evaluate(string(source), part)
			for _, w := range result.Warnings {
				opts.app.log.Warn("validation warning", "path", args[0], "message", w.Message)
			}

			if format != formatText {
				if err := writeValue(cmd.OutOrStdout(), format, result); err != nil {
					return err
				}
			}
			if len(result.Errors) > 0 {
				for _, e := range result.Errors {
					if e.Line > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d: %s\n", args[0], e.Line, e.Message)
					} else {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", args[0], e.Message)
					}
				}
				return fmt.Errorf("%s: %d error(s)", args[0], len(result.Errors))
			}
			if format == formatText {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\n", result.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&partFlag, "part", 0, "1 clamps to the initialization area, 2 uses the whole reactor (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")

	return cmd
}

func newVerifyCommand(opts *options) *cobra.Command {
	var (
		partFlag int
		script   bool
	)

	cmd := &cobra.Command{
		Use:   "verify FILE",
		Short: "Cross-check the tree's on-count against a dense voxel grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			part, err := opts.part(partFlag)
			if err != nil {
				return err
			}

			steps, err := opts.app.Load(args[0], script)
			if err != nil {
				return err
			}

			res, err := opts.app.Verify(steps, part)
			if err != nil {
				color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "FAIL %s\n", args[0])
				return err
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "OK %s: tree %s, grid %s\n",
				args[0], humanize.Comma(res.Tree), humanize.Comma(res.Grid))
			return nil
		},
	}

	cmd.Flags().IntVar(&partFlag, "part", 0, "1 clamps to the initialization area, 2 uses the whole reactor (default from config)")
	cmd.Flags().BoolVar(&script, "script", false, "treat the file as a Lisp script")

	return cmd
}

func newStatsCommand(opts *options) *cobra.Command {
	var (
		partFlag int
		script   bool
	)

	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Print the shape of the final region tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			part, err := opts.part(partFlag)
			if err != nil {
				return err
			}

			steps, err := opts.app.Load(args[0], script)
			if err != nil {
				return err
			}

			st, err := opts.app.Stats(steps, part)
			if err != nil {
				return err
			}

			tbl := table.NewWriter()
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Metric", "Value"})
			tbl.AppendRows([]table.Row{
				{"Steps", len(steps)},
				{"Part", int(part)},
				{"Leaves", humanize.Comma(int64(st.Leaves))},
				{"Inner nodes", humanize.Comma(int64(st.Inner))},
				{"Depth", st.Depth},
			})
			tbl.AppendFooter(table.Row{"Total", humanize.Comma(st.Total)})

			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
			return nil
		},
	}

	cmd.Flags().IntVar(&partFlag, "part", 0, "1 clamps to the initialization area, 2 uses the whole reactor (default from config)")
	cmd.Flags().BoolVar(&script, "script", false, "treat the file as a Lisp script")

	return cmd
}

func newMeshCommand(opts *options) *cobra.Command {
	var (
		partFlag int
		script   bool
		merge    bool
		out      string
	)

	cmd := &cobra.Command{
		Use:   "mesh FILE",
		Short: "Write JSON triangle meshes of the final region tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			part, err := opts.part(partFlag)
			if err != nil {
				return err
			}

			steps, err := opts.app.Load(args[0], script)
			if err != nil {
				return err
			}
			tree, err := opts.app.Reboot(steps, part)
			if err != nil {
				return err
			}

			start := time.Now()
			meshes, err := opts.app.Meshes(tree, merge)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			enc := json.NewEncoder(w)
			if err := enc.Encode(meshes); err != nil {
				return fmt.Errorf("write meshes: %w", err)
			}

			opts.app.log.Info("meshes written",
				"path", out,
				"meshes", len(meshes),
				"elapsed", time.Since(start))
			return nil
		},
	}

	cmd.Flags().IntVar(&partFlag, "part", 0, "1 clamps to the initialization area, 2 uses the whole reactor (default from config)")
	cmd.Flags().BoolVar(&script, "script", false, "treat the file as a Lisp script")
	cmd.Flags().BoolVar(&merge, "merge", false, "union all leaves into a single mesh")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output path, - for stdout")

	return cmd
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q, expected text, json or yaml", format)
	}
}

// writeResults prints run results: tab-separated path and total for text,
// or the full records for json and yaml.
func writeResults(w io.Writer, format string, results []fileResult) error {
	if format == formatText {
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%d\n", r.Path, r.Total)
		}
		return nil
	}
	return writeValue(w, format, results)
}

func writeValue(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
