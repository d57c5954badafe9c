package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"modloc/internal/locsource"
	"modloc/internal/sprites"
	"modloc/internal/writer"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func spritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprites <report.yml> <output>",
		Short: "Generate placeholder spriteTypes for assets in a missing-sprites report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			noBOM, _ := cmd.Flags().GetBool("no-bom")
			return runSprites(afero.NewOsFs(), args[0], args[1], !noBOM)
		},
	}
	cmd.Flags().Bool("no-bom", false, "Do not write a UTF-8 byte-order marker")
	return cmd
}

func localizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "localize <source.yml>",
		Short: "Render a localisation file from a source document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			noBOM, _ := cmd.Flags().GetBool("no-bom")
			return runLocalize(afero.NewOsFs(), args[0], output, !noBOM)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output path (defaults to the document's output key)")
	cmd.Flags().Bool("no-bom", false, "Do not write a UTF-8 byte-order marker")
	return cmd
}

// runSprites handles the `sprites` command.
func runSprites(fsys afero.Fs, reportPath, outputPath string, bom bool) error {
	report, err := sprites.LoadReport(reportPath)
	if err != nil {
		return err
	}

	return writeOutput(fsys, outputPath, bom, func(w *writer.Writer) error {
		return sprites.Generate(w, report)
	})
}

// runLocalize handles the `localize` command.
// bom is ANDed with the document's own bom setting.
func runLocalize(fsys afero.Fs, sourcePath, outputPath string, bom bool) error {
	doc, err := locsource.Load(sourcePath)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = doc.Output
	}
	if outputPath == "" {
		return fmt.Errorf("no output path: pass --output or set output in %s", sourcePath)
	}

	return writeOutput(fsys, outputPath, doc.WantBOM() && bom, func(w *writer.Writer) error {
		return locsource.Render(w, doc)
	})
}

// writeOutput runs fn against a fresh writer for path and removes the file
// again if generation fails after it was opened. A failed open leaves
// whatever already sits at path alone.
func writeOutput(fsys afero.Fs, path string, bom bool, fn func(*writer.Writer) error) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := writer.With(fsys, path, fn, writer.WithBOM(bom)); err != nil {
		var ioErr *writer.IOError
		if errors.As(err, &ioErr) && ioErr.Op == "open" {
			return fmt.Errorf("generate %s: %w", path, err)
		}
		if rmErr := fsys.Remove(path); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", path).Msg("Failed to remove partial output")
		}
		return fmt.Errorf("generate %s: %w", path, err)
	}

	log.Info().Str("path", path).Bool("bom", bom).Msg("Wrote output")
	return nil
}
