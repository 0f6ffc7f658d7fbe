package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ruokahinta/backend/internal/domain"
	"github.com/ruokahinta/backend/internal/usecase"
)

type resolveOptions struct {
	file     string
	servings int
	category string
	format   string
}

// resolveOutput is the JSON document printed by resolve
type resolveOutput struct {
	Results []domain.MatchResultView `json:"results"`
	Summary domain.RecipeCostSummary `json:"summary"`
}

func newResolveCmd(global *globalOptions) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve [ingredient...]",
		Short: "Match ingredients to catalog products and total the recipe cost",
		Long: `Match each ingredient to the most relevant catalog product and print
the matches with a recipe cost summary.

Examples:
  # Resolve against a local snapshot
  pricer resolve --catalog products.json "riisi 1kg" "voi 500g"

  # Read one ingredient per line from a file, 4 servings
  pricer resolve --file recipe.txt --servings 4 --format text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, global, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read ingredients from file, one per line (- for stdin)")
	cmd.Flags().IntVar(&opts.servings, "servings", 0, "Number of servings for the per-serving cost")
	cmd.Flags().StringVar(&opts.category, "category", "", "Category hint applied to every ingredient (see pricer categories)")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format (json, text)")
	return cmd
}

func runResolve(cmd *cobra.Command, global *globalOptions, opts *resolveOptions, args []string) error {
	if opts.format != "json" && opts.format != "text" {
		return fmt.Errorf("unknown output format: %s", opts.format)
	}
	if opts.servings < 0 {
		return fmt.Errorf("servings must not be negative")
	}

	names := append([]string(nil), args...)
	if opts.file != "" {
		lines, err := readIngredients(cmd, opts.file)
		if err != nil {
			return err
		}
		names = append(names, lines...)
	}
	if len(names) == 0 {
		return fmt.Errorf("no ingredients given")
	}

	components, err := global.setup(cmd)
	if err != nil {
		return err
	}
	defer components.Close()

	requests := make([]domain.IngredientRequest, len(names))
	for i, name := range names {
		requests[i] = domain.IngredientRequest{
			RawName:      name,
			CategoryHint: domain.NormalizeCategory(opts.category),
		}
	}

	results := components.Resolver.ResolveIngredients(cmd.Context(), requests)
	summary := usecase.Summarize(results, opts.servings)

	if opts.format == "text" {
		return writeText(cmd.OutOrStdout(), summary)
	}

	out := resolveOutput{Results: make([]domain.MatchResultView, 0, len(results)), Summary: summary}
	for _, r := range results {
		out.Results = append(out.Results, r.View())
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// readIngredients returns the non-empty, non-comment lines of path
func readIngredients(cmd *cobra.Command, path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open ingredients: %w", err)
		}
		defer f.Close()
		r = f
	}

	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ingredients: %w", err)
	}
	return names, nil
}

func writeText(w io.Writer, summary domain.RecipeCostSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INGREDIENT\tPRODUCT\tPRICE\tOPTIONS\tSTATUS")
	for _, line := range summary.Lines {
		product, price := "-", "-"
		if line.Product != "" {
			product = line.Product
		}
		if line.Price != nil {
			price = usecase.FormatPrice(*line.Price)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", line.Ingredient, product, price, line.OptionsCount, line.Reason)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %s (%d/%d matched", usecase.FormatPrice(summary.TotalCost), summary.MatchedCount, summary.TotalIngredients)
	if summary.UnpricedCount > 0 {
		fmt.Fprintf(w, ", %d without price", summary.UnpricedCount)
	}
	fmt.Fprintln(w, ")")
	if summary.CostPerServing != nil {
		fmt.Fprintf(w, "Per serving: %s (%d servings)\n", usecase.FormatPrice(*summary.CostPerServing), summary.Servings)
	}
	if !summary.Complete {
		fmt.Fprintln(w, "Note: total is partial")
	}
	return nil
}
