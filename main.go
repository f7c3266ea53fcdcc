package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tableplan/tableplan/cmd/inspect"
	"github.com/tableplan/tableplan/cmd/plan"
	"github.com/tableplan/tableplan/cmd/push"
)

var rootCmd = &cobra.Command{
	Use:   "tableplan",
	Short: "Compile and apply MySQL table change plans",
	Long: `tableplan compares a live MySQL table against an edited definition and
compiles the minimal, ordered DDL that transforms the former into the latter.

Available commands:
  inspect  - Read a table's structure and print it as a YAML definition
  plan     - Compile the change plan for an edited definition file
  push     - Compile and apply the change plan, statement by statement`,
}

func main() {
	viper.SetEnvPrefix("TABLEPLAN")
	viper.AutomaticEnv()

	rootCmd.AddCommand(inspect.NewInspectCommand())
	rootCmd.AddCommand(plan.NewPlanCommand())
	rootCmd.AddCommand(push.NewPushCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
