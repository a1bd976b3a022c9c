package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/matching-cli/internal/extract"
	"github.com/sells-group/matching-cli/internal/model"
)

var (
	matchFile        string
	matchTargetName  string
	matchTargetInd   string
	matchTargetDesc  string
	matchWithSummary bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score one company pairing and print the report",
	Long:  "Extracts the subject company from a CSV or XLSX file, pairs it with the target given by flags, and prints the full matching report as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if _, err := env.Precedent.Index(ctx, env.Provider.Embed); err != nil {
			zap.L().Warn("precedent indexing incomplete, fallback cases remain in use", zap.Error(err))
		}

		companyA, err := extract.FromFile(matchFile)
		if err != nil {
			return err
		}
		companyB := model.CompanyProfile{
			Name:        matchTargetName,
			Industry:    matchTargetInd,
			Description: matchTargetDesc,
		}

		zap.L().Info("matching",
			zap.String("company_a", companyA.Name),
			zap.String("company_b", companyB.Name),
		)

		report := env.Engine.AssembleReport(ctx, companyA, companyB, env.Finder)

		out := struct {
			*model.MatchingReport
			Analysis *model.AnalysisSummary `json:"analysis,omitempty"`
		}{MatchingReport: report}

		if matchWithSummary {
			summary, _ := env.Engine.Compare(ctx, companyA, companyB)
			out.Analysis = &summary
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchFile, "file", "", "CSV or XLSX file holding the subject company (required)")
	matchCmd.Flags().StringVar(&matchTargetName, "target-name", "", "target company name (required)")
	matchCmd.Flags().StringVar(&matchTargetInd, "target-industry", "", "target company industry (required)")
	matchCmd.Flags().StringVar(&matchTargetDesc, "target-description", "", "target business description (required)")
	matchCmd.Flags().BoolVar(&matchWithSummary, "with-analysis", false, "include the comparison narrative in the output")
	_ = matchCmd.MarkFlagRequired("file")
	_ = matchCmd.MarkFlagRequired("target-name")
	_ = matchCmd.MarkFlagRequired("target-industry")
	_ = matchCmd.MarkFlagRequired("target-description")
	rootCmd.AddCommand(matchCmd)
}
