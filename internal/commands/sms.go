package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallyup-dev/tallyup/internal/importlog"
	"github.com/tallyup-dev/tallyup/internal/ledger"
	"github.com/tallyup-dev/tallyup/internal/smsimport"
)

func newSMSCommand(g *globalFlags) *cobra.Command {
	smsCmd := &cobra.Command{
		Use:   "sms",
		Short: "Bank SMS operations",
	}
	smsCmd.AddCommand(newSMSImportCommand(g))
	return smsCmd
}

type smsImportFlags struct {
	format  string
	save    bool
	jsonOut bool
}

func newSMSImportCommand(g *globalFlags) *cobra.Command {
	f := &smsImportFlags{}

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Draft transactions from an SMS export (default: every file in import/)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(g)
			if err != nil {
				return err
			}
			defer a.Close()

			var files []smsimport.FileInfo
			if len(args) > 0 {
				format := f.format
				if format == "" {
					format = smsimport.FormatFromName(args[0])
				}
				files = []smsimport.FileInfo{{Name: filepath.Base(args[0]), Path: args[0], Format: format}}
			} else {
				if files, err = smsimport.Scan(a.root); err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No SMS exports in import/")
					return nil
				}
			}

			for _, file := range files {
				if err := runSMSImport(cmd, a, file, f, len(args) == 0); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.format, "format", "", "export format: json or csv (default: by extension)")
	cmd.Flags().BoolVar(&f.save, "save", false, "commit drafts, skipping messages already imported")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "print drafts as JSON")

	return cmd
}

func runSMSImport(cmd *cobra.Command, a *app, file smsimport.FileInfo, f *smsImportFlags, inImportDir bool) error {
	msgs, err := smsimport.DefaultRegistry().ReadFile(file.Path, file.Format)
	if err != nil {
		return err
	}
	msgs = smsimport.Limit(msgs, a.cfg.Import.MaxMessages)

	drafts, stats := a.smsPipeline().Run(msgs)

	out := cmd.OutOrStdout()
	if f.jsonOut {
		views := make([]draftView, 0, len(drafts))
		for _, d := range drafts {
			views = append(views, newDraftView(d))
		}
		if err := writeJSON(out, views); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "%s: %d messages, %d drafts, %d otp, %d unrecognized\n",
			file.Name, stats.Scanned, stats.Drafted, stats.OTP, stats.Unrecognized)
		for _, d := range drafts {
			printDraftRow(out, d)
		}
	}

	now := time.Now()
	entries := []importlog.Entry{
		{Timestamp: now, Source: importlog.SourceSMS, Action: importlog.ActionDrafted, Details: file.Name, Count: stats.Drafted},
		{Timestamp: now, Source: importlog.SourceSMS, Action: importlog.ActionSkipped, Details: file.Name + " (otp/unrecognized)", Count: stats.OTP + stats.Unrecognized},
	}

	if f.save {
		res, err := ledger.CommitAll(cmd.Context(), a.store, a.userID(), drafts)
		if err != nil {
			return fmt.Errorf("saving %s: %w", file.Name, err)
		}
		if !f.jsonOut {
			fmt.Fprintf(out, "Saved %d transactions (%d already imported)\n", len(res.Committed), res.Duplicates)
		}
		entries = append(entries,
			importlog.Entry{Timestamp: now, Source: importlog.SourceSMS, Action: importlog.ActionCommitted, Details: file.Name, Count: len(res.Committed)},
			importlog.Entry{Timestamp: now, Source: importlog.SourceSMS, Action: importlog.ActionSkipped, Details: file.Name + " (duplicate)", Count: res.Duplicates},
		)

		if inImportDir {
			if err := smsimport.MarkProcessed(a.root, file.Name); err != nil {
				return err
			}
		}
	}

	if err := importlog.Append(a.root, entries); err != nil {
		a.log.Warn().Err(err).Msg("failed to write import log")
	}
	return nil
}
