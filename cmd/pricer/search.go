package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSearchCmd(global *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a raw catalog keyword search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer components.Close()

			query := strings.Join(args, " ")
			records, err := components.Catalog.SearchProducts(cmd.Context(), query, limit)
			if err != nil {
				return fmt.Errorf("search %q: %w", query, err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCATEGORY")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.PriceText, r.Category)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of products")
	return cmd
}

func newCategoriesCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category hints accepted by --category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer components.Close()

			for _, category := range components.Resolver.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), category)
			}
			return nil
		},
	}
}
