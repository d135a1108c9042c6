package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/internal/domain/export"
)

var searchFlags struct {
	location   string
	radius     float64
	categories []string
	jobTypes   []string
	limit      int
	asJSON     bool
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search every configured job board around a location",
	Example: `  company-hunter search --location "Leeds" --radius 15 --category "IT Jobs"
  company-hunter search --location "SW1A 1AA" --job-type full_time --json`,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchFlags.location, "location", "l", "", "place name, postcode or address (required)")
	f.Float64VarP(&searchFlags.radius, "radius", "r", 0, "search radius in km (default from config)")
	f.StringSliceVar(&searchFlags.categories, "category", nil, "category filter, repeatable")
	f.StringSliceVar(&searchFlags.jobTypes, "job-type", nil, "job type filter, repeatable")
	f.IntVar(&searchFlags.limit, "limit", 50, "maximum rows to print, 0 prints all")
	f.BoolVar(&searchFlags.asJSON, "json", false, "print the full result as JSON")
	_ = searchCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := initApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer cleanup()

	radius := searchFlags.radius
	if radius == 0 {
		radius = a.Config.DefaultRadiusKm
	}

	result, err := a.Jobs.Search(cmd.Context(), domain.SearchRequest{
		Location:   searchFlags.location,
		Radius:     radius,
		Categories: searchFlags.categories,
		JobTypes:   searchFlags.jobTypes,
	})
	if err != nil {
		return err
	}

	if searchFlags.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println(renderJobs(result, searchFlags.limit))
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func renderJobs(result domain.SearchResult, limit int) string {
	jobs := result.Jobs
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Distance", "Title", "Company", "Salary", "Type", "Source").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, j := range jobs {
		t.Row(distance(j), truncate(j.Title, 48), truncate(j.Company.DisplayName, 32), export.Salary(j), j.ContractType, j.SourceAPI)
	}

	summary := dimStyle.Render(fmt.Sprintf("%d jobs from %d sources around %s (%.5f, %.5f)",
		result.Total, result.SourceCount, result.Center.FormattedAddress, result.Center.Latitude, result.Center.Longitude))
	if len(jobs) < result.Total {
		summary += dimStyle.Render(fmt.Sprintf(", showing %d", len(jobs)))
	}
	return t.Render() + "\n" + summary
}

func distance(j domain.Job) string {
	if j.Distance == nil {
		return domain.UnknownValue
	}
	return fmt.Sprintf("%.1f km", *j.Distance)
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
