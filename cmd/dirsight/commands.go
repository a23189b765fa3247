package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dirsight/internal/pipeline"
	"dirsight/internal/report"
)

var (
	runIgnore []string
	nodeMerge bool
)

var runCmd = &cobra.Command{
	Use:   "run <root>",
	Short: "Summarize a directory tree and store the run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		rec, err := a.svc.Run(cmd.Context(), args[0], runIgnore)
		if err != nil && len(rec.Report.Context) == 0 {
			return err
		}
		if flagJSON {
			if werr := writeJSON(cmd, rec); werr != nil {
				return werr
			}
		} else {
			fmt.Fprint(cmd.OutOrStdout(), report.Markdown(rec))
		}
		return err
	},
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		rec, err := a.svc.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(cmd, rec)
		}
		fmt.Fprint(cmd.OutOrStdout(), report.Markdown(rec))
		return nil
	},
}

var nodeCmd = &cobra.Command{
	Use:   "node <run-id> <path>",
	Short: "Re-summarize one file or directory of a stored run",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		rec, err := a.svc.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		res, err := a.svc.RegenerateNode(cmd.Context(), rec.Root, args[1], rec.Ignore)
		if err != nil {
			return err
		}
		if nodeMerge {
			rec = a.svc.MergeNode(rec, res)
			if err := a.svc.Save(cmd.Context(), rec); err != nil {
				return err
			}
		}
		if flagJSON {
			return writeJSON(cmd, res.Entries)
		}
		fmt.Fprint(cmd.OutOrStdout(), pipeline.ContextText(res.Entries))
		return nil
	},
}

var sectionCmd = &cobra.Command{
	Use:   "section <run-id> <section>",
	Short: "Regenerate one report section (" + strings.Join(pipeline.Sections(), ", ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		rec, err := a.svc.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		text, err := a.svc.RegenerateSection(cmd.Context(), args[1], rec)
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(cmd, map[string]string{"section": args[1], "text": text})
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(text, "\n"))
		return nil
	},
}

var regenCmd = &cobra.Command{
	Use:   "regen <run-id>",
	Short: "Discard a stored run's summaries and rebuild them from the filesystem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		rec, err := a.svc.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		rec, err = a.svc.RegenerateAll(cmd.Context(), rec)
		if err != nil && len(rec.Report.Context) == 0 {
			return err
		}
		if flagJSON {
			if werr := writeJSON(cmd, rec); werr != nil {
				return werr
			}
		} else {
			fmt.Fprint(cmd.OutOrStdout(), report.Markdown(rec))
		}
		return err
	},
}

func init() {
	runCmd.Flags().StringArrayVarP(&runIgnore, "ignore", "i", nil, "relative path to skip (repeatable)")
	nodeCmd.Flags().BoolVar(&nodeMerge, "merge", false, "merge the result into the stored run")
	rootCmd.AddCommand(runCmd, showCmd, nodeCmd, sectionCmd, regenCmd)
}
