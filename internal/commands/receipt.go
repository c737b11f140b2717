package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallyup-dev/tallyup/internal/importlog"
	"github.com/tallyup-dev/tallyup/internal/ledger"
	"github.com/tallyup-dev/tallyup/internal/model"
	"github.com/tallyup-dev/tallyup/internal/ocr"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

type receiptFlags struct {
	image    bool
	save     bool
	jsonOut  bool
	amount   string
	typ      string
	category string
	title    string
}

func newReceiptCommand(g *globalFlags) *cobra.Command {
	f := &receiptFlags{}

	cmd := &cobra.Command{
		Use:   "receipt <file>",
		Short: "Analyze a receipt image or OCR text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()
			return runReceipt(cmd, a, args[0], f)
		},
	}

	cmd.Flags().BoolVar(&f.image, "image", false, "treat the file as an image (default: by extension)")
	cmd.Flags().BoolVar(&f.save, "save", false, "commit the draft as a transaction")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "print the draft as JSON")
	cmd.Flags().StringVar(&f.amount, "amount", "", "override the detected amount")
	cmd.Flags().StringVar(&f.typ, "type", "", "override the type (income or expense)")
	cmd.Flags().StringVar(&f.category, "category", "", "override the category")
	cmd.Flags().StringVar(&f.title, "title", "", "override the title")

	return cmd
}

func (f *receiptFlags) edits() (ledger.Edits, error) {
	e := ledger.Edits{
		Direction: model.Direction(f.typ),
		Category:  model.Category(f.category),
		Title:     f.title,
	}
	if f.amount != "" {
		d, err := decimal.NewFromString(f.amount)
		if err != nil {
			return e, fmt.Errorf("invalid --amount %q: %w", f.amount, err)
		}
		e.Amount = decimal.NewNullDecimal(d)
	}
	return e, nil
}

func runReceipt(cmd *cobra.Command, a *app, path string, f *receiptFlags) error {
	edits, err := f.edits()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	text := string(data)
	if f.image || imageExts[strings.ToLower(filepath.Ext(path))] {
		text, err = recognize(cmd.Context(), a, data)
		if err != nil {
			return err
		}
	}

	draft := a.receiptPipeline().Run(text)
	out := cmd.OutOrStdout()
	if f.jsonOut {
		if err := writeJSON(out, newDraftView(draft)); err != nil {
			return err
		}
	} else {
		printDraft(out, draft)
	}

	if !f.save {
		return nil
	}

	tx, err := ledger.Commit(cmd.Context(), a.store, a.userID(), draft, edits)
	if err != nil {
		return fmt.Errorf("saving receipt: %w", err)
	}
	if !f.jsonOut {
		fmt.Fprintf(out, "Saved %s\n", tx.ID)
	}

	entry := importlog.Entry{
		Timestamp: time.Now(),
		Source:    importlog.SourceReceipt,
		Action:    importlog.ActionCommitted,
		Details:   filepath.Base(path),
		Count:     1,
	}
	if err := importlog.Append(a.root, []importlog.Entry{entry}); err != nil {
		a.log.Warn().Err(err).Msg("failed to write import log")
	}
	return nil
}

func recognize(ctx context.Context, a *app, image []byte) (string, error) {
	extractor, err := ocr.New(ctx, a.cfg.OCR)
	if err != nil {
		return "", fmt.Errorf("configuring ocr: %w", err)
	}
	if a.cfg.OCR.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.OCR.Timeout)
		defer cancel()
	}
	text, err := extractor.ExtractText(ctx, image)
	if err != nil {
		return "", fmt.Errorf("recognizing receipt: %w", err)
	}
	return text, nil
}
