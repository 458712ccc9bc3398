// Package commands implements the CLI commands for labwise.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "labwise",
	Short: "AI-powered health metric extraction from medical reports",
	Long: `Labwise extracts structured health metrics from medical report text
using AI providers, maps them onto a standardized metric taxonomy and
flags each value against its reference range.

Examples:
  # Extract metrics from a report text file
  labwise extract -f report.txt --patient-id 42

  # Pipe OCR output through stdin
  cat ocr-output.txt | labwise extract --patient-id 42 --report-type lab_report

  # Force a specific provider order via config override
  labwise extract -f report.txt --patient-id 42 --primary gemini

  # Inspect configured providers
  labwise providers`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.labwise.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".labwise")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LABWISE")
	viper.AutomaticEnv()

	// API keys come from the providers' conventional env vars.
	_ = viper.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
	_ = viper.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = viper.BindEnv("gemini_api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY")
	_ = viper.BindEnv("database_url", "DATABASE_URL")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
