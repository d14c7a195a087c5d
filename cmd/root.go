package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/deco-sim/deco-sim/deco"
)

var (
	// CLI flags shared by the plan and compare commands
	profilePath string  // Path to the YAML dive profile
	logLevel    string  // Log verbosity level
	modelName   string  // Model override (buhlmann, vpm, rgbm, hills, nmri98, thalmann)
	ascentRate  float64 // Ascent rate in m/min for TTS
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "deco-sim",
	Short: "Tissue-compartment decompression simulator",
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func loadProfile() *deco.Profile {
	if profilePath == "" {
		logrus.Fatalf("Dive profile not provided. Exiting.")
	}
	p, err := deco.LoadProfile(profilePath)
	if err != nil {
		logrus.Fatalf("unable to read dive profile; %v", err)
	}
	if modelName != "" {
		p.Model = modelName
	}
	if err := p.Validate(); err != nil {
		logrus.Fatalf("invalid dive profile; %v", err)
	}
	return p
}

// planCmd runs one model over the profile and prints its decompression plan
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a decompression plan for one model",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		p := loadProfile()

		m, err := p.NewModel()
		if err != nil {
			logrus.Fatalf("unable to construct model; %v", err)
		}
		plan, err := deco.RunProfile(m, p)
		if err != nil {
			logrus.Fatalf("simulation failed; %v", err)
		}

		fmt.Printf("Model: %s\n", plan.Model)
		fmt.Printf("Ceiling: %.1f m\n", plan.Ceiling)
		if len(plan.Consolidated) == 0 {
			fmt.Println("No decompression stops required.")
		} else {
			fmt.Println("Stops:")
			for _, s := range plan.Consolidated {
				fmt.Printf("  %3.0f m  %4.0f min  (%s)\n", s.Depth, s.Time, s.Gas)
			}
		}
		fmt.Printf("TTS at %.0f m/min: %.1f min\n", ascentRate, m.TTS(ascentRate))
		fmt.Printf("DCS risk: %.1f%%\n", plan.Risk)
	},
}

// compareCmd runs the same profile through all six models
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run the profile through all six models and compare risk",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		p := loadProfile()

		cmp, err := deco.CompareModels(p)
		if err != nil {
			logrus.Fatalf("comparison failed; %v", err)
		}
		for _, plan := range cmp.Plans {
			fmt.Printf("%-36s ceiling %5.1f m  stops %2d  TTS %6.1f min  risk %5.1f%%  stop time %5.1f min\n",
				plan.Model, plan.Ceiling, len(plan.Consolidated), plan.TTS, plan.Risk, plan.TotalStopTime())
		}
		fmt.Printf("Risk across models: %.1f%% +/- %.1f%%\n", cmp.MeanRisk, cmp.RiskStdDev)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Path to YAML dive profile")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: panic, fatal, error, warn, info, debug, trace")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "Model override: buhlmann, vpm, rgbm, hills, nmri98, thalmann")
	planCmd.Flags().Float64Var(&ascentRate, "ascent-rate", deco.DefaultAscentRate, "Ascent rate in m/min")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(compareCmd)
}
