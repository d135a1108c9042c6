package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var companiesLimit int

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List saved companies, newest first",
	RunE:  runCompanies,
}

func init() {
	companiesCmd.Flags().IntVar(&companiesLimit, "limit", 100, "maximum companies to list")
	rootCmd.AddCommand(companiesCmd)
}

func runCompanies(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := initApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer cleanup()

	saved, err := a.Companies.List(cmd.Context(), companiesLimit)
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		fmt.Println(dimStyle.Render("no saved companies"))
		return nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Saved", "Company", "Website", "Phone", "Job").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, c := range saved {
		t.Row(c.SavedAt.Local().Format("2006-01-02"), truncate(c.Name, 32), c.Metadata.Website, c.Metadata.Phone, truncate(c.JobTitle, 40))
	}

	fmt.Println(t.Render())
	return nil
}
