package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"conflict-resolver/pkg/config"
	"conflict-resolver/pkg/engine"
	"conflict-resolver/pkg/fieldmerge"
	"conflict-resolver/pkg/resolver"
	"conflict-resolver/pkg/semantic"
	"conflict-resolver/pkg/util/logging"
)

const autoStrategy = "auto"

var errUnresolved = errors.New("cannot resolve")

type app struct {
	configPath string
	engine     *engine.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "conflict-resolver",
		Short:        "Resolve divergent versions of a record",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config.yaml (defaults are used when empty)")

	root.AddCommand(
		a.strategiesCmd(),
		a.resolveCmd(),
		a.mergeCmd(),
		a.fieldsCmd(),
		a.auditCmd(),
	)
	return root
}

func (a *app) open() error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Read(a.configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		cfg = loaded
	}

	logger := logging.Init(cfg.Logging)
	e, err := engine.New(cfg, logger)
	if err != nil {
		return err
	}
	a.engine = e
	return nil
}

// closing wraps a RunE so the engine is closed even when the command fails.
func (a *app) closing(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer func() {
			if err := a.engine.Close(); err != nil {
				slog.Warn("close engine", slog.String("error", err.Error()))
			}
		}()
		return run(cmd, args)
	}
}

func (a *app) strategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the available strategies in priority order",
		Args:  cobra.NoArgs,
		RunE: a.closing(func(cmd *cobra.Command, _ []string) error {
			return outputJSON(cmd.OutOrStdout(), a.engine.Strategies())
		}),
	}
}

func (a *app) resolveCmd() *cobra.Command {
	var basePath, v1Path, v2Path, hint string

	cmd := &cobra.Command{
		Use:   "resolve <strategy|auto>",
		Short: "Resolve two versions with one strategy, or escalate through the chain with auto",
		Args:  cobra.ExactArgs(1),
		RunE: a.closing(func(cmd *cobra.Command, args []string) error {
			base, err := readOptional(basePath)
			if err != nil {
				return err
			}
			v1, err := os.ReadFile(v1Path)
			if err != nil {
				return err
			}
			v2, err := os.ReadFile(v2Path)
			if err != nil {
				return err
			}

			var out resolver.Outcome
			if args[0] == autoStrategy {
				res := a.engine.Chain().Resolve(cmd.Context(), resolver.Input{Base: base, V1: v1, V2: v2, Hint: hint})
				out = res.Outcome
			} else {
				s, err := a.engine.Strategy(args[0])
				if err != nil {
					return err
				}
				out = s.AttemptResolve(cmd.Context(), base, v1, v2, hint)
			}

			switch o := out.(type) {
			case resolver.Resolved:
				_, err := cmd.OutOrStdout().Write(o.Result)
				return err
			case resolver.CannotResolve:
				return fmt.Errorf("%w: %s", errUnresolved, o.Reason)
			}
			return fmt.Errorf("unexpected outcome %T", out)
		}),
	}

	cmd.Flags().StringVar(&basePath, "base", "", "common ancestor file")
	cmd.Flags().StringVar(&v1Path, "v1", "", "first version file")
	cmd.Flags().StringVar(&v2Path, "v2", "", "second version file")
	cmd.Flags().StringVar(&hint, "context", "", "strategy hint, e.g. {\"strategy\":\"multi-value\"}")
	_ = cmd.MarkFlagRequired("v1")
	_ = cmd.MarkFlagRequired("v2")
	return cmd
}

func (a *app) mergeCmd() *cobra.Command {
	var basePath, oursPath, theirsPath string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Three-way line merge of text files",
		Args:  cobra.NoArgs,
		RunE: a.closing(func(cmd *cobra.Command, _ []string) error {
			files, err := readAll(basePath, oursPath, theirsPath)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch res := a.engine.SemanticMerge().Execute(files[0], files[1], files[2]).(type) {
			case semantic.Clean:
				_, err := w.Write(res.Result)
				return err
			case semantic.Conflicts:
				for _, region := range res.Regions {
					if _, err := fmt.Fprintf(w, "%s\n", region); err != nil {
						return err
					}
				}
				return fmt.Errorf("%w: %d conflicting regions", errUnresolved, len(res.Regions))
			case semantic.UnsupportedContent:
				return fmt.Errorf("%w: %s", errUnresolved, res.Message)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&basePath, "base", "", "common ancestor file")
	cmd.Flags().StringVar(&oursPath, "ours", "", "our version file")
	cmd.Flags().StringVar(&theirsPath, "theirs", "", "their version file")
	for _, f := range []string{"base", "ours", "theirs"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) fieldsCmd() *cobra.Command {
	var entity, aPath, bPath, ancestorPath string

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Field-level three-way merge of two JSON records",
		Args:  cobra.NoArgs,
		RunE: a.closing(func(cmd *cobra.Command, _ []string) error {
			versionA, err := os.ReadFile(aPath)
			if err != nil {
				return err
			}
			versionB, err := os.ReadFile(bPath)
			if err != nil {
				return err
			}
			ancestor, err := readOptional(ancestorPath)
			if err != nil {
				return err
			}

			conflict, err := fieldmerge.NewConflict(entity, versionA, versionB, ancestor)
			if err != nil {
				return err
			}
			return outputJSON(cmd.OutOrStdout(), a.engine.FieldMerge().Resolve(conflict, fieldmerge.Config{}))
		}),
	}

	cmd.Flags().StringVar(&entity, "entity", "", "entity id")
	cmd.Flags().StringVar(&aPath, "a", "", "version A file")
	cmd.Flags().StringVar(&bPath, "b", "", "version B file")
	cmd.Flags().StringVar(&ancestorPath, "ancestor", "", "common ancestor file")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func (a *app) auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit <relation>",
		Short: "List recorded resolutions, e.g. lww-resolution",
		Args:  cobra.ExactArgs(1),
		RunE: a.closing(func(cmd *cobra.Command, args []string) error {
			recs, err := a.engine.AuditTrail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return outputJSON(cmd.OutOrStdout(), recs)
		}),
	}
}

func outputJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// readOptional returns nil for an empty path.
func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}

func readAll(paths ...string) ([][]byte, error) {
	out := make([][]byte, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}
