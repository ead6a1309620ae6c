package content

import (
	"context"
	"fmt"
)

// RelocationFocus names the relocation the content targets.
const RelocationFocus = "Arizona, USA → Peak District, UK"

// Relocation groups the relocation-related rows of every table.
type Relocation struct {
	Success           bool              `json:"success"`
	RelocationFocus   string            `json:"relocation_focus"`
	Content           map[string][]Item `json:"content"`
	TotalItems        int               `json:"total_items"`
	Categories        map[string]string `json:"categories"`
	ExternalResources map[string]string `json:"external_resources"`
}

type relocationQuery struct {
	key   string
	table string
	where string
	order string
	label string
}

var relocationQueries = []relocationQuery{
	{
		key:   "guides",
		table: "site_content",
		where: "category IN ('relocation', 'housing') OR tags LIKE '%arizona%' OR tags LIKE '%peak_district%'",
		order: "created_at DESC",
		label: "relocation and housing guides",
	},
	{
		key:   "uk_jobs",
		table: "job_resources",
		where: "category LIKE '%uk%' OR tags LIKE '%uk%' OR description LIKE '%uk%'",
		order: "is_featured DESC, rating DESC",
		label: "UK remote job opportunities",
	},
	{
		key:   "peak_activities",
		table: "peak_district_content",
		where: "tags LIKE '%arizona%' OR description LIKE '%arizona%' OR title LIKE '%arizona%'",
		order: "rating DESC",
		label: "Peak District activities",
	},
	{
		key:   "integration_tools",
		table: "waitress_toolkit",
		where: "category IN ('immigration', 'healthcare') OR tags LIKE '%relocators%'",
		order: "created_at DESC",
		label: "integration resources",
	},
	{
		key:   "transport_planning",
		table: "journey_planning",
		where: "location_from LIKE '%Phoenix%' OR location_from LIKE '%Arizona%' OR location_to LIKE '%Manchester%' OR location_to LIKE '%Peak District%'",
		order: "rating DESC",
		label: "journey planning tools",
	},
}

var externalResources = map[string]string{
	"ai_apply":          "https://aiapply.co/ - Automate UK job applications",
	"make_my_drive_fun": "https://makemydrivefun.com/ - Plan Phoenix to UK journey",
	"uk_gov_jobs":       "https://jobs.gov.uk/ - Official UK government jobs",
	"nhs_careers":       "https://nhs.uk/careers/ - NHS career opportunities",
	"peak_district_gov": "https://peakdistrict.gov.uk/ - Official Peak District information",
}

// Relocation collects the Arizona to Peak District content.
func (s *Store) Relocation(ctx context.Context) (Relocation, error) {
	r := Relocation{
		Success:           true,
		RelocationFocus:   RelocationFocus,
		Content:           make(map[string][]Item, len(relocationQueries)),
		Categories:        make(map[string]string, len(relocationQueries)),
		ExternalResources: make(map[string]string, len(externalResources)),
	}
	for _, q := range relocationQueries {
		items, err := s.query(ctx, q.table, q.where, q.order)
		if err != nil {
			return Relocation{}, fmt.Errorf("failed to retrieve %s: %w", q.key, err)
		}
		if items == nil {
			items = []Item{}
		}
		r.Content[q.key] = items
		r.Categories[q.key] = fmt.Sprintf("%d %s", len(items), q.label)
		r.TotalItems += len(items)
	}
	for k, v := range externalResources {
		r.ExternalResources[k] = v
	}
	return r, nil
}
