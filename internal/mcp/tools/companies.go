package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/internal/domain/company"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

// SaveCompanyParams defines the arguments for the save_company tool
type SaveCompanyParams struct {
	Name     string `json:"name" jsonschema:"Company name as shown in search results"`
	JobID    string `json:"job_id,omitempty" jsonschema:"Job the company was found through"`
	JobTitle string `json:"job_title,omitempty"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
	MapsURL  string `json:"maps_url,omitempty"`
	Notes    string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

// SavedCompaniesParams defines the arguments for the saved_companies tool
type SavedCompaniesParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of companies, most recent first"`
}

// DeleteCompanyParams defines the arguments for the delete_company tool
type DeleteCompanyParams struct {
	ID string `json:"id" jsonschema:"Saved company id"`
}

type companyTools struct {
	service company.Service
	logger  *logging.Logger
}

// WithCompanies registers save_company, saved_companies and delete_company
func WithCompanies(service company.Service) Option {
	return func(reg *registry) {
		t := companyTools{service: service, logger: reg.logger.Named("companies")}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "save_company",
			Description: "Bookmark a company from a search result; saving the same name again updates it",
		}, t.save)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "saved_companies",
			Description: "List bookmarked companies",
		}, t.list)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "delete_company",
			Description: "Remove a bookmarked company",
		}, t.delete)

		reg.add("save_company")
		reg.add("saved_companies")
		reg.add("delete_company")
	}
}

func (t companyTools) save(ctx context.Context, _ *sdkmcp.CallToolRequest, params *SaveCompanyParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil {
		params = &SaveCompanyParams{}
	}
	if t.service == nil {
		return nil, nil, fmt.Errorf("company storage not configured")
	}

	saved, err := t.service.Save(ctx, company.SaveRequest{
		Name: params.Name,
		Metadata: domain.CompanyMetadata{
			Address: params.Address,
			Phone:   params.Phone,
			Website: params.Website,
			MapsURL: params.MapsURL,
		},
		JobID:    params.JobID,
		JobTitle: params.JobTitle,
		Notes:    params.Notes,
	})
	if err != nil {
		return nil, nil, err
	}

	return summaryResult(fmt.Sprintf("[save_company] saved %s", saved.Name), saved), saved, nil
}

func (t companyTools) list(ctx context.Context, _ *sdkmcp.CallToolRequest, params *SavedCompaniesParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil {
		params = &SavedCompaniesParams{}
	}
	if t.service == nil {
		return nil, nil, fmt.Errorf("company storage not configured")
	}

	companies, err := t.service.List(ctx, params.Limit)
	if err != nil {
		return nil, nil, err
	}

	out := map[string]any{"companies": companies}
	return summaryResult(fmt.Sprintf("[saved_companies] %d saved", len(companies)), out), out, nil
}

func (t companyTools) delete(ctx context.Context, _ *sdkmcp.CallToolRequest, params *DeleteCompanyParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil {
		params = &DeleteCompanyParams{}
	}
	if t.service == nil {
		return nil, nil, fmt.Errorf("company storage not configured")
	}

	if err := t.service.Delete(ctx, params.ID); err != nil {
		return nil, nil, err
	}

	t.logger.Info("company deleted", "id", params.ID)
	return textResult(fmt.Sprintf("[delete_company] deleted %s", params.ID)), nil, nil
}
