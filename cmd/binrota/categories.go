package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ewanmcn/binrota/internal/cli"
	"github.com/ewanmcn/binrota/internal/model"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the known bin categories and cycle templates",
		RunE:  runCategories,
	}
}

func runCategories(_ *cobra.Command, _ []string) error {
	cat := defaultCatalog()

	fmt.Println(cli.FormatTitle("Bin categories"))
	table := cli.NewTable(os.Stdout, []string{"Category", "Description", "Icon", "Priority"})
	for c := model.CategoryBlack; c <= model.CategoryBurgundy; c++ {
		table.AddRow([]string{cli.StyleCategory(c), c.Label(), cat.Icon(c), fmt.Sprintf("%d", c.SortPriority())})
	}
	table.Render()

	fmt.Println()
	fmt.Println(cli.FormatTitle("Cycle templates"))
	templates := cli.NewTable(os.Stdout, []string{"Template", "Period", "Phases"})
	for _, t := range cat.Templates() {
		phases := make([]string, 0, t.Period())
		for _, p := range t.Phases {
			phases = append(phases, p.String())
		}
		templates.AddRow([]string{t.Name, fmt.Sprintf("%d weeks", t.Period()), strings.Join(phases, " → ")})
	}
	templates.Render()

	return nil
}
