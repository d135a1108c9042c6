package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List the categories and job types the configured sources accept",
	RunE:  runFilters,
}

func init() {
	rootCmd.AddCommand(filtersCmd)
}

func runFilters(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := initApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer cleanup()

	f := a.Jobs.Filters()
	fmt.Println(headerStyle.Render("Sources"))
	fmt.Println(cellStyle.Render(strings.Join(a.Sources, ", ")))
	fmt.Println(headerStyle.Render("Categories"))
	for _, c := range f.Categories {
		fmt.Println(cellStyle.Render(c))
	}
	fmt.Println(headerStyle.Render("Job types"))
	for _, t := range f.JobTypes {
		fmt.Println(cellStyle.Render(t))
	}
	return nil
}
