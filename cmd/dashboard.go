package cmd

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/campaignlens/internal/dashboard"
	"github.com/KaramelBytes/campaignlens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	dashSel       selectionFlags
	dashFormat    string
	dashOutput    string
	dashChartsDir string
	dashChartURLs bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render the campaign dashboard for a selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(dashFormat, "markdown", "json"); err != nil {
			return err
		}
		t, err := loadTable()
		if err != nil {
			return err
		}
		sel, err := dashSel.selection(t)
		if err != nil {
			return err
		}
		opt := dashboardOptions()
		d := dashboard.Build(t, sel, opt)

		var body []byte
		switch dashFormat {
		case "json":
			if body, err = utils.PrettyJSON(d); err != nil {
				return err
			}
		default:
			md := d.Markdown()
			if dashChartURLs {
				md += chartURLSection(d.ChartURLs(opt))
			}
			body = []byte(md)
		}
		if err := emit(cmd, dashOutput, body, "dashboard"); err != nil {
			return err
		}
		if dashChartsDir != "" {
			written, err := writeCharts(d, dashChartsDir, "", opt)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %d charts to %s\n", len(written), dashChartsDir)
		}
		return nil
	},
}

func chartURLSection(urls map[string]string) string {
	if len(urls) == 0 {
		return ""
	}
	names := make([]string, 0, len(urls))
	for k := range urls {
		names = append(names, k)
	}
	sort.Strings(names)
	out := "\n[CHARTS]\n"
	for _, k := range names {
		out += fmt.Sprintf("- %s: %s\n", k, urls[k])
	}
	return out
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashSel.bind(dashboardCmd, true)
	dashboardCmd.Flags().StringVar(&dashFormat, "format", "markdown", "output format: markdown|json")
	dashboardCmd.Flags().StringVarP(&dashOutput, "output", "o", "", "optional path to write the dashboard")
	dashboardCmd.Flags().StringVar(&dashChartsDir, "charts-dir", "", "directory to write PNG charts into")
	dashboardCmd.Flags().BoolVar(&dashChartURLs, "chart-urls", false, "append QuickChart image URLs (markdown only)")
}
