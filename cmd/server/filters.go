package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"selfie-filter-backend/internal/filters"
)

type filtersOutput struct {
	Version int                           `yaml:"version"`
	Default filters.Descriptor            `yaml:"default"`
	Filters map[string]filters.Descriptor `yaml:"filters"`
}

func newFiltersCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Print the effective filter catalog",
		Long: `Loads the filter document (the embedded one unless --config or
FILTER_CONFIG_PATH names a file), validates it and prints the placement
of every filter.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = os.Getenv("FILTER_CONFIG_PATH")
			}

			catalog, err := filters.Load(configPath)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(filtersOutput{
				Version: catalog.Version(),
				Default: catalog.Fallback(),
				Filters: catalog.Document(),
			})
			if err != nil {
				return fmt.Errorf("failed to encode catalog: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Filter document (YAML or JSON)")

	return cmd
}
