package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"modloc/internal/config"
	"modloc/internal/filewalker"
	"modloc/internal/parser"
	"modloc/internal/references"
	"modloc/internal/worker"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// errCheckFailed signals findings without repeating them as an error message.
var errCheckFailed = errors.New("check found problems")

func checkCmd(env *config.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report unresolved $references$ and duplicate keys in configured mods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			ctx, cancel := setupContext()
			defer cancel()
			return runCheck(ctx, afero.NewOsFs(), configPath, env.Workers, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringP("config", "c", "modloc.yml", "Project configuration file")
	return cmd
}

// checkReport is the outcome of a check run.
type checkReport struct {
	Files      int
	Unresolved []references.Finding
	Duplicates []references.Duplicate
}

func (r *checkReport) ok() bool {
	return len(r.Unresolved) == 0 && len(r.Duplicates) == 0
}

// runCheck handles the `check` command.
func runCheck(ctx context.Context, fsys afero.Fs, configPath string, workers int, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if len(cfg.Paths) == 0 {
		return fmt.Errorf("%s: no paths configured", configPath)
	}

	report, err := collectCheck(ctx, fsys, cfg.Paths, workers, knownKeys(cfg))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderCheck(report))
	if !report.ok() {
		return errCheckFailed
	}
	return nil
}

func collectCheck(ctx context.Context, fsys afero.Fs, roots []string, workers int, known []string) (*checkReport, error) {
	entries, err := filewalker.NewWalker(fsys).WalkAll(roots)
	if err != nil {
		return nil, err
	}

	parsePool := worker.NewPool[filewalker.FileEntry, *parser.ParseResult](workers,
		func(ctx context.Context, entry filewalker.FileEntry) (*parser.ParseResult, error) {
			return entry.Parser.Parse(entry.Path)
		},
	)

	var results []*parser.ParseResult
	for _, task := range parsePool.Execute(ctx, entries) {
		if task.Err != nil {
			return nil, fmt.Errorf("parse %s: %w", task.Input.Path, task.Err)
		}
		results = append(results, task.Result)
	}

	report := &checkReport{
		Files:      len(results),
		Unresolved: references.Unresolved(results, known...),
		Duplicates: references.Duplicates(results),
	}
	log.Info().
		Int("files", report.Files).
		Int("unresolved", len(report.Unresolved)).
		Int("duplicates", len(report.Duplicates)).
		Msg("Check complete")
	return report, nil
}

// knownKeys reads the optional "known_keys" list: keys provided by the base
// game or other mods that references may point at.
func knownKeys(cfg *config.Config) []string {
	raw, ok := cfg.Get("known_keys")
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		log.Warn().Msg("known_keys is not a list, ignoring")
		return nil
	}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			keys = append(keys, s)
		}
	}
	return keys
}

func renderCheck(r *checkReport) string {
	if r.ok() {
		return fmt.Sprintf("%d localisation files checked, no problems found", r.Files)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Problem", "Key", "Detail", "Location"})
	for _, f := range r.Unresolved {
		tw.AppendRow(table.Row{"unresolved", f.Key, "$" + f.Ref + "$", fmt.Sprintf("%s:%d", f.File, f.Line)})
	}
	for _, d := range r.Duplicates {
		tw.AppendRow(table.Row{"duplicate", d.Key, "l_" + d.Language, strings.Join(d.Sites, ", ")})
	}
	tw.SetCaption("%d localisation files checked", r.Files)
	return tw.Render()
}
