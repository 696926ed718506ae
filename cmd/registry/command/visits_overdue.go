package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yoppiari/tumor-registry-sub011/followups"
)

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List scheduled visits that are past their scheduled date",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(func(repo followups.Repository) error {
			status := followups.VisitStatusScheduled
			visits, err := repo.List(context.Background(), &followups.Filter{Status: &status})
			if err != nil {
				return err
			}

			now := time.Now()
			for _, visit := range visits {
				if !followups.IsOverdue(visit, now) {
					continue
				}
				fmt.Printf("%s\t%s\tvisit %d (%s)\toverdue by %d days\n",
					visit.Id.Hex(),
					visit.PatientId,
					visit.VisitNumber,
					visit.VisitType,
					-followups.DaysUntil(visit, now),
				)
			}
			return nil
		})
	},
}

func init() {
	visitsCmd.AddCommand(overdueCmd)
}
