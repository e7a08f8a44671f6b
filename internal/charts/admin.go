package charts

import (
	"time"

	"github.com/lifelink/lifelink-web/internal/domain"
)

// Admin analytics aggregations, computed from the full donor and request
// lists rather than a dedicated backend endpoint.

const trendDays = 30

// RegistrationTrend buckets donor sign-ups per day over the trailing 30
// days. Labels are MM-DD; days without sign-ups stay at zero. Records with
// an unparseable created_at are skipped.
func RegistrationTrend(donors []domain.Donor, now time.Time) Chart {
	start := now.UTC().AddDate(0, 0, -(trendDays - 1))
	labels := make([]string, trendDays)
	index := make(map[string]int, trendDays)
	for i := range labels {
		day := start.AddDate(0, 0, i)
		labels[i] = day.Format("01-02")
		index[day.Format("2006-01-02")] = i
	}

	data := make([]int, trendDays)
	for _, d := range donors {
		created, err := time.Parse(time.RFC3339, d.CreatedAt)
		if err != nil {
			continue
		}
		if i, ok := index[created.UTC().Format("2006-01-02")]; ok {
			data[i]++
		}
	}
	return Chart{
		Labels:   labels,
		Datasets: []Dataset{{Label: "New Registrations", Data: data, Color: "#C0392B"}},
	}
}

// paired light/dark slices per blood type family
var distributionPalette = []string{
	"#FF6B6B", "#FF8787",
	"#4ECDC4", "#7ED6DF",
	"#FFE66D", "#FFD93D",
	"#1A535C", "#2C3E50",
}

// BloodGroupDistribution counts donors per blood group across the fixed
// eight-group set.
func BloodGroupDistribution(donors []domain.Donor) Chart {
	data := make([]int, len(domain.BloodGroups))
	for _, d := range donors {
		for i, g := range domain.BloodGroups {
			if d.BloodGroup == g {
				data[i]++
				break
			}
		}
	}
	return Chart{
		Labels:   append([]string(nil), domain.BloodGroups...),
		Datasets: []Dataset{{Data: data, Colors: distributionPalette}},
	}
}

// RequestStatusOverview counts requests per lifecycle status for the pie.
func RequestStatusOverview(requests []domain.EmergencyRequest) Chart {
	statuses := []domain.RequestStatus{
		domain.StatusOpen, domain.StatusInProgress, domain.StatusFulfilled, domain.StatusCancelled,
	}
	data := make([]int, len(statuses))
	for _, r := range requests {
		for i, s := range statuses {
			if r.Status == string(s) {
				data[i]++
				break
			}
		}
	}
	return Chart{
		Labels:   []string{"Open", "In Progress", "Fulfilled", "Cancelled"},
		Datasets: []Dataset{{Data: data, Colors: []string{"#F1C40F", "#3498DB", "#27AE60", "#95A5A6"}}},
	}
}

// UrgencyBreakdown counts requests per urgency level for the bar chart.
func UrgencyBreakdown(requests []domain.EmergencyRequest) Chart {
	levels := []domain.Urgency{domain.UrgencyRoutine, domain.UrgencyUrgent, domain.UrgencyCritical}
	data := make([]int, len(levels))
	for _, r := range requests {
		for i, l := range levels {
			if r.UrgencyLevel == string(l) {
				data[i]++
				break
			}
		}
	}
	return Chart{
		Labels:   []string{"Routine", "Urgent", "Critical"},
		Datasets: []Dataset{{Label: "Requests", Data: data, Colors: []string{"#2ECC71", "#F39C12", "#E74C3C"}}},
	}
}
