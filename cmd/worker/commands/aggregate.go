package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/service"
)

func aggregateCmd(opts *rootOptions) *cobra.Command {
	var (
		by     string
		size   string
		sector string
		long   bool
	)
	cmd := &cobra.Command{
		Use:   "aggregate <dataset>",
		Short: "Print domain scores grouped by a categorical column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(args[0])
			if err != nil {
				return err
			}
			q := service.ScoreQuery{
				GroupBy: by,
				Filter: domain.Filter{
					domain.ColumnBusinessSize:   size,
					domain.ColumnBusinessSector: sector,
				},
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if long {
				points, err := svc.LongScores(cmd.Context(), q)
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "GROUP\tDOMAIN\tSCORE")
				for _, p := range points {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Group, p.Domain,
						strconv.FormatFloat(p.Score, 'f', domain.DefaultScorePrecision, 64))
				}
				return tw.Flush()
			}

			rows, err := svc.Scores(cmd.Context(), q)
			if err != nil {
				return err
			}
			codes := svc.DefaultDomains()
			header := make([]string, 0, len(codes)+1)
			header = append(header, "GROUP")
			for _, c := range codes {
				header = append(header, string(c))
			}
			fmt.Fprintln(tw, strings.Join(header, "\t"))
			for _, r := range rows {
				cells := make([]string, 0, len(codes)+1)
				cells = append(cells, r.Group)
				for _, c := range codes {
					cells = append(cells, formatScore(r.Score(c)))
				}
				fmt.Fprintln(tw, strings.Join(cells, "\t"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&by, "by", "resilience", "group column or alias (size, sector, resilience)")
	cmd.Flags().StringVar(&size, "size", domain.FilterAll, "Business Size filter")
	cmd.Flags().StringVar(&sector, "sector", domain.FilterAll, "Business Sector filter")
	cmd.Flags().BoolVar(&long, "long", false, "print long form (group, domain, score)")
	return cmd
}
