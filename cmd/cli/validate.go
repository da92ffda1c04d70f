package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kosarica/compare-service/internal/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a catalog file without loading it anywhere",
	Example: `  compare-service validate ./data/catalog.json
  compare-service validate ./data/csv/`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cat, err := catalog.NewFileProvider(args[0]).Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if err := catalog.Validate(cat); err != nil {
		return err
	}
	version, err := catalog.ComputeVersion(cat)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Stores\t%d\n", len(cat.Stores))
	fmt.Fprintf(w, "Items\t%d\n", len(cat.Items))
	fmt.Fprintf(w, "Prices\t%d\n", len(cat.Prices))
	fmt.Fprintf(w, "Version\t%s\n", version)
	return w.Flush()
}
