package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/company-hunter/internal/domain/export"
	"github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

// Exporter writes jobs to a spreadsheet
type Exporter interface {
	Export(ctx context.Context, req export.Request) (export.Result, error)
}

// SheetsExportParams defines the arguments for the sheets_export tool
type SheetsExportParams struct {
	SpreadsheetID string           `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
	Tab           string           `json:"tab,omitempty" jsonschema:"Tab name, defaults to Jobs"`
	JobIDs        []string         `json:"job_ids,omitempty" jsonschema:"Stored jobs to export"`
	Search        *JobSearchParams `json:"search,omitempty" jsonschema:"Run this search and export its results instead of job_ids"`
	Replace       bool             `json:"replace,omitempty" jsonschema:"Clear the tab and write a header row before the jobs"`
}

type sheetsExportTool struct {
	exporter      Exporter
	search        job.Service
	defaultRadius float64
	logger        *logging.Logger
}

// WithSheetsExport registers the sheets_export tool
func WithSheetsExport(exporter Exporter, search job.Service, defaultRadiusKm float64) Option {
	return func(reg *registry) {
		handler := sheetsExportTool{
			exporter:      exporter,
			search:        search,
			defaultRadius: defaultRadiusKm,
			logger:        reg.logger.Named("sheets_export"),
		}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "sheets_export",
			Description: "Export stored jobs, or the results of a fresh search, to a Google Sheets tab",
		}, handler.handle)
		reg.add("sheets_export")
	}
}

func (t sheetsExportTool) handle(ctx context.Context, req *sdkmcp.CallToolRequest, params *SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil {
		params = &SheetsExportParams{}
	}
	if t.exporter == nil {
		return nil, nil, fmt.Errorf("sheets export not configured (GOOGLE_SHEETS_CREDENTIALS_PATH not set)")
	}

	exportReq := export.Request{
		SpreadsheetID: params.SpreadsheetID,
		Tab:           params.Tab,
		JobIDs:        params.JobIDs,
		Replace:       params.Replace,
	}

	if params.Search != nil {
		searchTool := jobSearchTool{service: t.search, defaultRadius: t.defaultRadius, logger: t.logger}
		_, out, err := searchTool.handle(ctx, req, params.Search)
		if err != nil {
			return nil, nil, err
		}
		exportReq.Jobs = out.(JobSearchResult).Jobs
		if len(exportReq.Jobs) == 0 {
			return textResult("[sheets_export] search returned no jobs, nothing exported"), nil, nil
		}
	}

	result, err := t.exporter.Export(ctx, exportReq)
	if err != nil {
		t.logger.Error("sheets_export failed", "spreadsheet_id", params.SpreadsheetID, "err", err)
		return nil, nil, err
	}

	summary := fmt.Sprintf("[sheets_export] %s: wrote %d row(s) to %s", result.Mode, result.WrittenRows, result.Tab)
	return summaryResult(summary, result), result, nil
}
