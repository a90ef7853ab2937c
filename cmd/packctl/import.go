package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codyseavey/packtracker/internal/importer"
	"github.com/codyseavey/packtracker/internal/models"
)

type importOptions struct {
	ref  models.SetRef
	kind string
	mode string
	root string
	// force skips the set's import flag
	force bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a card or sealed feed into a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			_, st, closeFn, err := openStore()
			if err != nil {
				return err
			}
			defer closeFn()
			return runImport(cmd.Context(), st, importer.New(st, cfg.ImportWritesPerSecond), filepath.Base(args[0]), data, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.ref.Language, "language", "l", "", "Set language (required)")
	cmd.Flags().StringVarP(&opts.ref.Category, "category", "c", "", "Set category (required)")
	cmd.Flags().StringVarP(&opts.ref.Set, "set", "s", "", "Set name (required)")
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "cards", "cards or sealed")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "all", "all, prices or photos")
	cmd.Flags().StringVar(&opts.root, "root", "", "JSONPath of the item array in nested JSON feeds")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Import even when the set has imports disabled")
	_ = cmd.MarkFlagRequired("language")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("set")
	return cmd
}

// setGetter is the part of the store runImport needs besides the importer
type setGetter interface {
	GetSet(ctx context.Context, ref models.SetRef) (models.SetMeta, error)
}

func runImport(ctx context.Context, sets setGetter, im *importer.Importer, filename string, data []byte, opts importOptions, out io.Writer) error {
	kind, err := models.ParseItemKind(opts.kind)
	if err != nil {
		return err
	}
	mode, err := models.ParseImportMode(opts.mode)
	if err != nil {
		return err
	}

	meta, err := sets.GetSet(ctx, opts.ref)
	if err != nil {
		return err
	}
	if !opts.force && !meta.CanImport(kind) {
		return fmt.Errorf("%s imports are disabled for %s (use --force)", kind, opts.ref.Label())
	}

	recs, err := importer.Parse(filename, data, kind, opts.root)
	if err != nil {
		return err
	}

	res, err := im.Apply(ctx, opts.ref, kind, recs, mode)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d %s into %s (%d new, mode %s)\n", res.Imported, kind, opts.ref.Label(), res.Created, mode)
	if len(res.Failed) > 0 {
		fmt.Fprintf(out, "\n--- %d records failed ---\n", len(res.Failed))
		for _, name := range res.Failed {
			fmt.Fprintf(out, "  %s\n", name)
		}
	}
	return nil
}
