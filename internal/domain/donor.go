package domain

// BloodGroups is the fixed set accepted by registration and search filters.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func ValidBloodGroup(bg string) bool {
	for _, g := range BloodGroups {
		if g == bg {
			return true
		}
	}
	return false
}

type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

// Donor mirrors the donor records returned by /donors/search and /admin/donors.
type Donor struct {
	DonorID          string   `json:"donor_id"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	BloodGroup       string   `json:"blood_group"`
	City             string   `json:"city"`
	Area             string   `json:"area"`
	Age              int      `json:"age"`
	Gender           string   `json:"gender"`
	Availability     string   `json:"availability_status"`
	LastDonationDate string   `json:"last_donation_date"`
	TotalDonations   int      `json:"total_donations"`
	CanDonateNow     bool     `json:"can_donate_now"`
	CreatedAt        string   `json:"created_at"`
	Conditions       []string `json:"medical_conditions,omitempty"`
}

func (d *Donor) Name() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

// DonationEntry is one row of the per-donor donation log. It doubles as the
// fallback cache record kept in the session store when the history endpoint
// is unreachable.
type DonationEntry struct {
	Date     string `json:"date"`
	Location string `json:"location"`
	BP       string `json:"bp,omitempty"`
	Type     string `json:"type"`
}
