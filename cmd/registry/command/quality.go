package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yoppiari/tumor-registry-sub011/quality"
)

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Manage data quality metrics",
}

var centerId string

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute quality scores for every patient of a center",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(func(service quality.Service) error {
			summary, err := service.GetCenterQualitySummary(context.Background(), centerId)
			if err != nil {
				return err
			}

			fmt.Printf("center %s: %d patients, average score %.1f (high %d / medium %d / low %d)\n",
				summary.CenterId,
				summary.PatientCount,
				summary.AverageScore,
				summary.HighQuality,
				summary.MediumQuality,
				summary.LowQuality,
			)
			for _, recommendation := range summary.TopRecommendations {
				fmt.Printf("  %s: %d patients (%.0f%%)\n",
					recommendation.Field, recommendation.Count, recommendation.Percentage)
			}
			return nil
		})
	},
}

func init() {
	recomputeCmd.Flags().StringVar(&centerId, "center", "", "Center identifier")
	_ = recomputeCmd.MarkFlagRequired("center")

	qualityCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(qualityCmd)
}
