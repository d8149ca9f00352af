package recruiting

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/recruitmesh/artifact"
	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/tool"
)

// Tool names.
const (
	ToolScrapeWebsite = "scrape_website"
	ToolSaveCampaign  = "save_campaign_to_file"
)

// Fetcher returns a plain-text excerpt of a page or an error string.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}

type scrapeArgs struct {
	URL string `json:"url" description:"URL of the job posting."`
}

type saveArgs struct {
	JobTitle        string `json:"job_title" description:"Job title of the position, used as file name."`
	CampaignContent string `json:"campaign_content" description:"Complete ad text including the research summary."`
}

// NewScrapeTool exposes a Fetcher as the scrape_website action tool.
func NewScrapeTool(f Fetcher) *tool.FunctionTool {
	return tool.NewFunctionToolFromStruct(
		ToolScrapeWebsite,
		"Fetch a job posting or career page and return its visible text (at most a few thousand characters). URLs without a scheme are fetched via https.",
		scrapeArgs{},
		func(tc *core.ToolContext, args map[string]any) (string, error) {
			url, err := tool.StringArg(args, "url")
			if err != nil {
				return "", err
			}

			if strings.TrimSpace(url) == "" {
				return "", fmt.Errorf("url must not be empty")
			}

			return f.Fetch(tc.Context(), url), nil
		},
	)
}

// NewSaveTool exposes an artifact.Store as the save_campaign_to_file action tool.
func NewSaveTool(store artifact.Store) *tool.FunctionTool {
	return tool.NewFunctionToolFromStruct(
		ToolSaveCampaign,
		"Save the finished recruiting ad. The job title becomes the file name.",
		saveArgs{},
		func(tc *core.ToolContext, args map[string]any) (string, error) {
			title, err := tool.StringArg(args, "job_title")
			if err != nil {
				return "", err
			}

			content, err := tool.StringArg(args, "campaign_content")
			if err != nil {
				return "", err
			}

			path, err := store.Save(title, content)
			if err != nil {
				return "", fmt.Errorf("save campaign %q: %w", title, err)
			}

			tc.LogInfo("recruiting.campaign.saved", "job_title", title, "path", path, "bytes", len(content))

			return "Recruiting ad saved to " + path, nil
		},
	)
}
