package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/labwise/labwise/internal/config"
	"github.com/labwise/labwise/internal/logger"
	"github.com/labwise/labwise/internal/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured extraction providers",
	Long: `List the configured AI extraction providers, their models,
priorities and availability. A provider is available only when it is
enabled and has an API key configured.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logError("%v", err)
		return err
	}
	manager := config.NewManager(cfg, nil)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tMODEL\tPRIORITY\tROLE\tAVAILABLE")

	secondary, _ := manager.SecondaryProvider(cmd.Context())
	for _, name := range provider.Names() {
		pc, ok := cfg.Providers[name]
		if !ok {
			continue
		}

		model := pc.Model
		if model == "" {
			model = provider.DefaultModels[name]
		}

		role := "-"
		switch name {
		case manager.PrimaryProvider(cmd.Context()):
			role = "primary"
		case secondary:
			role = "secondary"
		}

		available := pc.Enabled && pc.APIKey != ""
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%t\n", name, model, pc.Priority, role, available)
	}
	return tw.Flush()
}
