package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nickybricks/private-aesy-sub003/internal/clientdata"
	"github.com/nickybricks/private-aesy-sub003/internal/clients/classifier"
	"github.com/nickybricks/private-aesy-sub003/internal/clients/fundamentals"
	"github.com/nickybricks/private-aesy-sub003/internal/domain"
	"github.com/nickybricks/private-aesy-sub003/internal/modules/analysis"
)

func newAnalyzeCmd() *cobra.Command {
	var symbol string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [input.json]",
		Short: "Run a full scoring and valuation analysis",
		Long: `Runs the full analysis pipeline: cost of capital, three valuation
scenarios, sector-scored metrics, the weighted quality aggregate and the
two-pillar decision.

Input is either a JSON file with fundamentals (and optional criterion
scores and qualitative answers), or --symbol to fetch fundamentals from
the configured provider.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && symbol == "" {
				return fmt.Errorf("provide an input file or --symbol")
			}

			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			var req analysis.Request
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read %s: %w", args[0], err)
				}
				if err := json.Unmarshal(data, &req); err != nil {
					return fmt.Errorf("parse %s: %w", args[0], err)
				}
			} else {
				cacheRepo := clientdata.NewRepository(e.cacheDB.Conn())
				client := fundamentals.NewClient(e.cfg.ProviderURL, e.cfg.ProviderKey, cacheRepo, zerolog.Nop())
				f, err := client.GetFundamentals(cmd.Context(), symbol)
				if err != nil {
					return fmt.Errorf("fetch fundamentals for %s: %w", symbol, err)
				}
				req.Fundamentals = *f
			}

			var answerClassifier domain.AnswerClassifier
			if e.cfg.GeminiAPIKey != "" {
				answerClassifier, err = classifier.NewGeminiClassifier(cmd.Context(), e.cfg.GeminiAPIKey, e.cfg.GeminiModel, zerolog.Nop())
				if err != nil {
					return fmt.Errorf("create answer classifier: %w", err)
				}
			}

			svc := analysis.NewService(e.resolver, answerClassifier, e.cfg.MarginPercent, zerolog.Nop())
			report, err := svc.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			renderReport(report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "fetch fundamentals for this ticker from the provider")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw report as JSON")

	return cmd
}

func renderReport(report *analysis.Report) {
	fmt.Println(text.Bold.Sprintf("%s  (%s, %s %.2f)",
		report.Symbol, report.Archetype, report.PriceCurrency, report.CurrentPrice))
	fmt.Printf("WACC %.2f%%   run %s\n\n", report.WACCPercent, report.RunID)

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.AppendHeader(table.Row{"MODE", "GROWTH", "INTRINSIC", "VERDICT", "DEVIATION", "BUY BELOW"})
	for _, mv := range report.Valuations {
		if !mv.DCF.Valid {
			tw.AppendRow(table.Row{mv.Mode, fmt.Sprintf("%.1f%%", mv.GrowthPercent),
				"-", "insufficient data: " + strings.Join(mv.DCF.MissingInputs, ", "), "-", "-"})
			continue
		}
		tw.AppendRow(table.Row{
			mv.Mode,
			fmt.Sprintf("%.1f%%", mv.GrowthPercent),
			fmt.Sprintf("%.2f", mv.DCF.IntrinsicValue),
			string(mv.Assessment.Verdict),
			fmt.Sprintf("%+.1f%%", mv.Assessment.DeviationPercent),
			fmt.Sprintf("%.2f", mv.IdealBuyPrice),
		})
	}
	tw.Render()
	fmt.Println()

	if len(report.Metrics) > 0 {
		tw = table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetStyle(table.StyleColoredDark)
		tw.Style().Options.DrawBorder = false
		tw.AppendHeader(table.Row{"METRIC", "VALUE", "SCORE", "STATUS", "WINDOW"})
		for _, m := range report.Metrics {
			tw.AppendRow(table.Row{
				m.Metric,
				fmt.Sprintf("%.1f", m.Value),
				fmt.Sprintf("%.0f/10", m.Score),
				string(m.Status),
				string(m.Badge),
			})
		}
		tw.Render()
		fmt.Println()
	}

	fmt.Printf("Quality: %.1f%% (%s)\n", report.Quality.Percent, report.Quality.Level)
	if report.Qualitative != nil {
		fmt.Printf("Qualitative: %.2f / %.0f points\n", report.Qualitative.Points, report.Qualitative.MaxPoints)
	}
	if report.Gate != nil {
		verdict := text.FgRed.Sprint("NOT CONFORMING")
		if report.Gate.Conforming {
			verdict = text.FgGreen.Sprint("CONFORMING")
		}
		fmt.Printf("Two-pillar gate: %s (quality %.1f%%, margin of safety %+.1f%%)\n",
			verdict, report.Gate.QualityPercent, report.Gate.MarginOfSafety)
	}
}
