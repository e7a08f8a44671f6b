package domain

// AdminStats is the payload of GET /admin/stats.
type AdminStats struct {
	Overview struct {
		TotalDonors       int `json:"total_donors"`
		OpenRequests      int `json:"open_requests"`
		FulfilledRequests int `json:"fulfilled_requests"`
	} `json:"overview"`
	RecentActivity struct {
		NewDonors7d int `json:"new_donors_7d"`
	} `json:"recent_activity"`
}

// GroupSummary is one blood group's supply/demand slice from /heatmap/demand.
type GroupSummary struct {
	Supply int `json:"supply"`
	Demand int `json:"demand"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CityActivity is one city entry from /heatmap/demand.
type CityActivity struct {
	City             string      `json:"city"`
	Coordinates      Coordinates `json:"coordinates"`
	DonorCount       int         `json:"donor_count"`
	ActiveRequests   int         `json:"active_requests"`
	CriticalRequests int         `json:"critical_requests"`
}

// HeatmapData is the payload of GET /heatmap/demand.
type HeatmapData struct {
	Summary struct {
		TotalDonors         int `json:"total_donors"`
		TotalActiveRequests int `json:"total_active_requests"`
		CriticalRequests    int `json:"critical_requests"`
		CitiesCovered       int `json:"cities_covered"`
	} `json:"summary"`
	BloodGroupSummary map[string]GroupSummary `json:"blood_group_summary"`
	Cities            []CityActivity          `json:"cities"`
}

type WeekActivity struct {
	Label       string `json:"label"`
	NewDonors   int    `json:"new_donors"`
	NewRequests int    `json:"new_requests"`
	Donations   int    `json:"donations"`
}

type DayUrgency struct {
	Label    string `json:"label"`
	Critical int    `json:"critical"`
	Urgent   int    `json:"urgent"`
	Routine  int    `json:"routine"`
}

// TrendsData is the payload of GET /analytics/trends.
type TrendsData struct {
	WeeklyActivity   []WeekActivity `json:"weekly_activity"`
	CriticalTimeline []DayUrgency   `json:"critical_timeline"`
}
