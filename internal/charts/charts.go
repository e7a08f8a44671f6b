// Package charts shapes backend analytics payloads into chart-ready
// datasets and map markers. The page scripts feed these straight into the
// charting library without further processing.
package charts

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lifelink/lifelink-web/internal/domain"
)

// Dataset is one series of a bar/line/doughnut chart. Color styles the
// whole series; Colors styles per slice when the chart needs both.
type Dataset struct {
	Label  string   `json:"label,omitempty"`
	Data   []int    `json:"data"`
	Color  string   `json:"color,omitempty"`
	Colors []string `json:"colors,omitempty"`
}

// Chart is a labels-plus-datasets bundle.
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// doughnut palette, one slot per blood group slice
var groupPalette = []string{
	"#C0392B", "#E74C3C", "#9B59B6", "#8E44AD",
	"#2980B9", "#3498DB", "#1ABC9C", "#16A085",
}

// BloodGroupSupply builds the registered-donors doughnut from the heatmap
// blood group summary. Groups are sorted so output is stable across polls.
func BloodGroupSupply(summary map[string]domain.GroupSummary) Chart {
	labels := make([]string, 0, len(summary))
	for g := range summary {
		labels = append(labels, g)
	}
	sort.Strings(labels)

	data := make([]int, len(labels))
	for i, g := range labels {
		data[i] = summary[g].Supply
	}
	return Chart{
		Labels:   labels,
		Datasets: []Dataset{{Data: data, Color: groupPalette[0]}},
	}
}

// WeeklyActivity builds the three-series weekly bars: new donors, blood
// requests, donations made.
func WeeklyActivity(weeks []domain.WeekActivity) Chart {
	c := Chart{
		Datasets: []Dataset{
			{Label: "New Donors", Color: "rgba(39, 174, 96, 0.85)"},
			{Label: "Blood Requests", Color: "rgba(192, 57, 43, 0.75)"},
			{Label: "Donations Made", Color: "rgba(41, 128, 185, 0.75)"},
		},
	}
	for _, w := range weeks {
		c.Labels = append(c.Labels, w.Label)
		c.Datasets[0].Data = append(c.Datasets[0].Data, w.NewDonors)
		c.Datasets[1].Data = append(c.Datasets[1].Data, w.NewRequests)
		c.Datasets[2].Data = append(c.Datasets[2].Data, w.Donations)
	}
	return c
}

// CriticalTimeline builds the stacked urgency bars for the last 7 days.
func CriticalTimeline(days []domain.DayUrgency) Chart {
	c := Chart{
		Datasets: []Dataset{
			{Label: "Critical", Color: "rgba(192, 57, 43, 0.9)"},
			{Label: "Urgent", Color: "rgba(230, 126, 34, 0.85)"},
			{Label: "Routine", Color: "rgba(39, 174, 96, 0.7)"},
		},
	}
	for _, d := range days {
		c.Labels = append(c.Labels, d.Label)
		c.Datasets[0].Data = append(c.Datasets[0].Data, d.Critical)
		c.Datasets[1].Data = append(c.Datasets[1].Data, d.Urgent)
		c.Datasets[2].Data = append(c.Datasets[2].Data, d.Routine)
	}
	return c
}

// Pakistan bounding box and the SVG viewbox the activity map projects into.
const (
	lngMin   = 60.5
	lngRange = 17.3 // 77.8 - 60.5
	latMax   = 37.5
	latRange = 14.0 // 37.5 - 23.5
	svgW     = 800
	svgH     = 600
)

// Marker is one plotted city on the live activity map.
type Marker struct {
	City     string  `json:"city"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Color    string  `json:"color"`
	Donors   int     `json:"donors"`
	Active   int     `json:"active_requests"`
	Critical int     `json:"critical_requests"`
	Tooltip  string  `json:"tooltip"`
}

// MapMarkers projects city coordinates into the SVG viewbox. Cities without
// coordinates or outside the box (10px margin) are skipped. Color encodes
// urgency: red with criticals, orange with active requests, green otherwise.
// Radius scales with sqrt(donors), clamped to [6, 14].
func MapMarkers(cities []domain.CityActivity) []Marker {
	markers := make([]Marker, 0, len(cities))
	for _, c := range cities {
		if c.Coordinates.Lat == 0 || c.Coordinates.Lng == 0 {
			continue
		}
		x := (c.Coordinates.Lng - lngMin) / lngRange * svgW
		y := (latMax - c.Coordinates.Lat) / latRange * svgH
		if x < 10 || x > svgW-10 || y < 10 || y > svgH-10 {
			continue
		}

		color := "#27AE60"
		if c.CriticalRequests > 0 {
			color = "#C0392B"
		} else if c.ActiveRequests > 0 {
			color = "#E67E22"
		}

		r := math.Min(14, math.Max(6, 5+math.Sqrt(float64(c.DonorCount))))

		tooltip := fmt.Sprintf("%s — %d donors | %d requests", c.City, c.DonorCount, c.ActiveRequests)
		if c.CriticalRequests > 0 {
			tooltip += fmt.Sprintf(" (%d critical)", c.CriticalRequests)
		}

		markers = append(markers, Marker{
			City:     c.City,
			X:        x,
			Y:        y,
			Radius:   r,
			Color:    color,
			Donors:   c.DonorCount,
			Active:   c.ActiveRequests,
			Critical: c.CriticalRequests,
			Tooltip:  tooltip,
		})
	}
	return markers
}

// TimeAgo renders the feed's relative timestamps.
func TimeAgo(t, now time.Time) string {
	seconds := now.Sub(t).Seconds()
	switch {
	case seconds > 24*3600:
		return fmt.Sprintf("%d days ago", int(seconds/(24*3600)))
	case seconds > 3600:
		return fmt.Sprintf("%d hrs ago", int(seconds/3600))
	case seconds > 60:
		return fmt.Sprintf("%d mins ago", int(seconds/60))
	default:
		return "Just now"
	}
}
