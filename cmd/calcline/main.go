// Command calcline is the CLI front-end: a document-oriented calculator
// driven over stdin or files, built on cobra subcommands and viper
// flag/env/config-file layering.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ha1tch/calcline"
	"github.com/ha1tch/calcline/catalog"
)

var (
	cfgFile    string
	localeFlag string
	ratesFile  string
	forceDef   bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "calcline",
		Short: "A line-oriented calculator over numbers, units, currencies, and dates",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file supplying the locale and rates options (rendering settings are always read from $XDG_CONFIG_HOME/calcline/settings.yaml)")
	root.PersistentFlags().StringVar(&localeFlag, "locale", "", "region code applying a rendering-settings overlay (e.g. US, DE, IN)")
	root.PersistentFlags().StringVar(&ratesFile, "rates", "", "exchange-rate snapshot JSON file to load before evaluating")
	root.PersistentFlags().BoolVar(&forceDef, "default-settings", false, "ignore any settings file and use built-in defaults")

	viper.BindPFlag("locale", root.PersistentFlags().Lookup("locale"))
	viper.BindPFlag("rates", root.PersistentFlags().Lookup("rates"))
	viper.SetEnvPrefix("calcline")
	viper.AutomaticEnv()

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			return nil
		}
		viper.SetConfigFile(cfgFile)
		return viper.ReadInConfig()
	}

	root.AddCommand(calcCmd(), parseCmd(), ratesCmd())
	return root
}

// buildOrchestrator wires a fresh Orchestrator over the built-in catalog,
// applying settings, locale overlay, and an exchange-rate snapshot per the
// command-line/viper-layered configuration.
func buildOrchestrator() (*calcline.Orchestrator, error) {
	o := calcline.New(catalog.Builtin())

	settings, err := calcline.LoadOrCreateSettings(forceDef)
	if err != nil {
		return nil, err
	}
	o.Settings = settings

	if locale := viper.GetString("locale"); locale != "" {
		o.SetUserLocale(locale)
	}

	if path := viper.GetString("rates"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		snapshot, err := calcline.ParseExchangeRateSnapshot(data)
		if err != nil {
			return nil, err
		}
		if err := o.LoadExchangeRates(snapshot); err != nil {
			return nil, err
		}
	}

	return o, nil
}

func readInput(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func calcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc [file]",
		Short: "Evaluate a document, printing one formatted result per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}
			o, err := buildOrchestrator()
			if err != nil {
				return err
			}
			result := o.Calculate(input)
			for _, line := range result.Lines {
				printLine(line)
			}
			return nil
		},
	}
	return cmd
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a document without evaluating it, printing the chosen tree per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}
			o, err := buildOrchestrator()
			if err != nil {
				return err
			}
			result := o.Parse(input)
			for _, line := range result.Trees {
				if line.Tree != nil {
					fmt.Printf("%d: %s\n", line.LineNumber, line.Tree.String())
				} else if line.Formatted != "" {
					fmt.Printf("%d: %s\n", line.LineNumber, line.Formatted)
				}
			}
			return nil
		},
	}
	return cmd
}

func ratesCmd() *cobra.Command {
	ratesRoot := &cobra.Command{
		Use:   "rates",
		Short: "Exchange-rate snapshot utilities",
	}
	ratesRoot.AddCommand(&cobra.Command{
		Use:   "load <file>",
		Short: "Validate an exchange-rate snapshot file and print its currency count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			snapshot, err := calcline.ParseExchangeRateSnapshot(data)
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(map[string]any{
				"date":      snapshot.Date,
				"base":      snapshot.Base,
				"rateCount": len(snapshot.Rates),
			}, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	})
	return ratesRoot
}

func printLine(line calcline.LineResult) {
	switch line.Kind {
	case calcline.LineHeading:
		fmt.Printf("%d: %s\n", line.LineNumber, line.HeadingText)
	case calcline.LineEmpty:
		fmt.Println()
	default:
		fmt.Printf("%d: %s\n", line.LineNumber, line.Formatted)
	}
}
