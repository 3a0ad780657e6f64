package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/dataset"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/service"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	sheet   string
	mode    string
	domains string
	levels  []string
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "worker",
		Short:        "Offline cyber resilience score tables",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.sheet, "sheet", "", "worksheet to read (default first sheet)")
	root.PersistentFlags().StringVar(&opts.mode, "mode", string(domain.ScoreYesPercentage), "score mode: yes_percentage or mean_of_means")
	root.PersistentFlags().StringVar(&opts.domains, "domains", "", "comma separated domain codes (default all)")
	root.PersistentFlags().StringSliceVar(&opts.levels, "levels", []string{"Yes", "No"}, "Cyber Resilience levels kept in tab exports")

	root.AddCommand(aggregateCmd(opts), exportCmd(opts))
	return root
}

// newService builds an uncached dashboard service over one file.
func (o *rootOptions) newService(path string) (*service.DashboardService, error) {
	catalog := domain.CanonicalCatalog()
	codes, err := catalog.ParseCodes(o.domains)
	if err != nil {
		return nil, err
	}
	loader := dataset.NewLoader(catalog, dataset.WithSheet(o.sheet))
	return service.NewDashboardService(loader, nil, service.Options{
		DatasetPath:      path,
		Mode:             domain.ScoreMode(strings.TrimSpace(o.mode)),
		Domains:          codes,
		ResilienceLevels: o.levels,
	})
}

// formatScore renders one table cell; undefined scores stay blank.
func formatScore(s *float64, ok bool) string {
	if !ok || s == nil {
		return ""
	}
	return strconv.FormatFloat(*s, 'f', domain.DefaultScorePrecision, 64)
}
