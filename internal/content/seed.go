package content

// seedData fills empty tables on first open.
var seedData = map[string][]Item{
	"site_content": {
		{
			Title:       "Complete Arizona to Peak District Relocation Guide",
			Description: "Visa requirements, housing, healthcare and cultural adaptation for the move from the Arizona desert to the Peak District countryside.",
			Category:    "relocation",
			Tags:        []string{"arizona", "peak_district", "relocation", "international_move", "uk_visa"},
		},
		{
			Title:       "Peak District Housing for Arizona Relocators",
			Description: "Property types, pricing and neighbourhoods: Bakewell, Matlock, Hathersage and Tideswell.",
			Category:    "housing",
			Tags:        []string{"housing", "peak_district", "property", "arizona_comparison"},
		},
		{
			Title:       "Desktop Release Notes",
			Description: "What changed in the enhanced desktop edition.",
			Category:    "news",
			Tags:        []string{"release"},
		},
	},
	"job_resources": {
		{
			Title:       "Remote Customer Service Representative - UK Companies",
			URL:         "https://indeed.co.uk/jobs?q=remote+customer+service",
			Description: "Customer service roles with UK companies for relocators keeping remote work",
			Category:    "remote_customer_service_uk",
			Tags:        []string{"remote", "customer_service", "uk", "timezone_flexible"},
			IsFeatured:  true,
			Rating:      4.5,
		},
		{
			Title:       "Virtual Restaurant Coordinator - Peak District Tourism",
			URL:         "https://jobs.gov.uk/",
			Description: "Coordinate bookings for Peak District tourism and hospitality businesses",
			Category:    "hospitality_remote_uk",
			Tags:        []string{"hospitality", "peak_district", "tourism", "remote"},
			IsFeatured:  true,
			Rating:      4.6,
		},
		{
			Title:       "Remote Waitressing Boards",
			URL:         "https://remotive.com/",
			Description: "Virtual hosting and order-taking shifts from home",
			Category:    "hospitality",
			Tags:        []string{"remote", "hospitality"},
			Rating:      4.2,
		},
		{
			Title:       "AI Apply",
			URL:         "https://aiapply.co/",
			Description: "Automated job applications",
			Category:    "automation",
			Tags:        []string{"ai", "automation"},
			Rating:      4.9,
		},
	},
	"ai_tools": {
		{Title: "Teal HQ", URL: "https://tealhq.com/", Description: "Resume builder and job tracker", Category: "resume", Rating: 4.9},
		{Title: "Final Round AI", URL: "https://finalroundai.com/", Description: "Interview practice with live feedback", Category: "interview", Rating: 4.8},
		{Title: "Jobscan", URL: "https://jobscan.co/", Description: "ATS keyword optimization", Category: "ats", Rating: 4.8},
	},
	"peak_district_content": {
		{
			Title:       "Mam Tor Ridge Walk",
			Description: "A gentle first hike for newcomers from arizona: green ridges instead of red rock",
			Category:    "hiking",
			Tags:        []string{"hiking", "arizona_friendly"},
			Rating:      4.8,
		},
		{
			Title:       "Chatsworth House Gardens",
			Description: "Formal gardens and estate walks",
			Category:    "heritage",
			Tags:        []string{"heritage", "arizona_comparison"},
			Rating:      4.7,
		},
		{
			Title:       "Kinder Scout Plateau",
			Description: "Classic moorland plateau walk",
			Category:    "hiking",
			Tags:        []string{"hiking"},
			Rating:      4.6,
		},
	},
	"waitress_toolkit": {
		{
			Title:       "UK Skilled Worker Visa Checklist",
			URL:         "https://www.gov.uk/skilled-worker-visa",
			Description: "Documents and timelines for the visa application",
			Category:    "immigration",
			Tags:        []string{"visa", "relocators"},
		},
		{
			Title:       "Registering with an NHS GP",
			URL:         "https://nhs.uk/",
			Description: "How to register with a local practice",
			Category:    "healthcare",
			Tags:        []string{"nhs"},
		},
		{
			Title:       "Tray Balancing Drills",
			Description: "Carry more plates with less spillage",
			Category:    "skills",
			Tags:        []string{"service"},
		},
	},
	"journey_planning": {
		{
			Title:        "Phoenix to Manchester Flights",
			URL:          "https://makemydrivefun.com/",
			Description:  "Connections via Dallas, Chicago and New York",
			LocationFrom: "Phoenix, Arizona",
			LocationTo:   "Manchester, UK",
			Rating:       4.4,
		},
		{
			Title:        "Manchester Airport to Bakewell",
			Description:  "Train and bus options into the national park",
			LocationFrom: "Manchester Airport",
			LocationTo:   "Bakewell, Peak District",
			Rating:       4.3,
		},
		{
			Title:        "Bakewell to Sheffield",
			Description:  "Commuter bus timetable",
			LocationFrom: "Bakewell",
			LocationTo:   "Sheffield",
			Rating:       4.0,
		},
	},
	"relocate_data": {
		{Title: "Cost of Living Comparison", Description: "Phoenix versus Derbyshire monthly budget", Category: "finance"},
		{Title: "Climate Adjustment", Description: "Desert to temperate: what to pack", Category: "lifestyle"},
	},
}
