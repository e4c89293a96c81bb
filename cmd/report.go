package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/campaignlens/internal/analysis"
	"github.com/KaramelBytes/campaignlens/internal/dashboard"
	"github.com/KaramelBytes/campaignlens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repSel       selectionFlags
	repOutputDir string
	repCharts    bool
	repQuiet     bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write one Markdown dashboard per observed month plus an index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if repOutputDir == "" {
			return fmt.Errorf("--output-dir is required")
		}
		t, err := loadTable()
		if err != nil {
			return err
		}
		base, err := repSel.selection(t)
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(repOutputDir); err != nil {
			return err
		}
		opt := dashboardOptions()
		months := dashboard.BuildControls(t, base).Months
		if len(months) == 0 {
			// no month column: a single report over the whole selection
			months = []string{""}
		}

		var index strings.Builder
		index.WriteString("[CAMPAIGN REPORT]\n")
		index.WriteString(fmt.Sprintf("File: %s\n", t.Name))
		index.WriteString(fmt.Sprintf("Months: %d\n\n", len(months)))
		index.WriteString("| month | rows | subscribed % | file |\n|---|---|---|---|\n")

		total := len(months)
		for i, m := range months {
			label := m
			if label == "" {
				label = "all"
			}
			if !repQuiet {
				fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] Rendering %s...\n", i+1, total, label)
			}
			sel := analysis.Selection{Month: m, PrevContacted: base.PrevContacted, Age: base.Age}
			d := dashboard.Build(t, sel, opt)
			stem := utils.Slug(label)
			outFile := utils.UniquePath(repOutputDir, stem, ".md")
			if err := utils.SafeWriteFile(outFile, []byte(d.Markdown())); err != nil {
				return err
			}
			if repCharts {
				if _, err := writeCharts(d, filepath.Join(repOutputDir, "charts"), stem+"_", opt); err != nil {
					return err
				}
			}
			index.WriteString(fmt.Sprintf("| %s | %d | %s | %s |\n", label, d.Rows, d.SubscriptionRate.Format(), filepath.Base(outFile)))
		}
		indexPath := utils.UniquePath(repOutputDir, "index", ".md")
		if err := utils.SafeWriteFile(indexPath, []byte(index.String())); err != nil {
			return err
		}
		if !repQuiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d reports and %s to %s\n", total, filepath.Base(indexPath), repOutputDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&repSel.prevContacted, "prev-contacted", "", "only rows with this prior-contact flag (e.g. yes)")
	reportCmd.Flags().StringVar(&repSel.ageMin, "age-min", "", "inclusive minimum age")
	reportCmd.Flags().StringVar(&repSel.ageMax, "age-max", "", "inclusive maximum age")
	reportCmd.Flags().StringVar(&repOutputDir, "output-dir", "", "directory to write reports into")
	reportCmd.Flags().BoolVar(&repCharts, "charts", false, "also write PNG charts per month under <output-dir>/charts")
	reportCmd.Flags().BoolVar(&repQuiet, "quiet", false, "suppress progress output")
}
