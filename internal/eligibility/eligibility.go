// Package eligibility holds the deterministic form logic behind the
// eligibility wizard, the BMI calculator, and the tracker's donation-gap
// math. None of it touches the network.
package eligibility

import (
	"fmt"
	"math"
	"time"
)

// BMIResult is the calculator's view-model: value, status band, gauge
// fill percentage and band color.
type BMIResult struct {
	Value      float64 `json:"value"`
	Status     string  `json:"status"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// BMI computes body-mass index from weight in kg and height in cm and maps
// it onto the gauge bands used by the calculator page.
func BMI(weightKg, heightCm float64) (BMIResult, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return BMIResult{}, fmt.Errorf("weight and height must be positive")
	}

	h := heightCm / 100
	value := math.Round(weightKg/(h*h)*10) / 10

	res := BMIResult{Value: value}
	switch {
	case value < 18.5:
		res.Status = "Underweight"
		res.Color = "#F39C12"
		res.Percentage = math.Min(value/18.5*25, 25)
	case value < 24.9:
		res.Status = "Healthy Weight"
		res.Color = "#27AE60"
		res.Percentage = 25 + (value-18.5)/(24.9-18.5)*25
	case value < 29.9:
		res.Status = "Overweight"
		res.Color = "#E67E22"
		res.Percentage = 50 + (value-25)/(29.9-25)*25
	default:
		res.Status = "Obese"
		res.Color = "#C0392B"
		res.Percentage = math.Min(75+(value-30)/10*25, 100)
	}
	return res, nil
}

// Donation gaps: whole blood needs a 90-day rest, apheresis roughly 14.
const (
	WholeBloodGapDays = 90
	ApheresisGapDays  = 14
)

// NextDonation reports when a donor may give again after a donation of the
// given type on lastDate.
func NextDonation(lastDate time.Time, donationType string) time.Time {
	gap := ApheresisGapDays
	if donationType == "Whole Blood" {
		gap = WholeBloodGapDays
	}
	return lastDate.AddDate(0, 0, gap)
}

// DaysUntil returns whole days from now until next, rounded up. Zero or
// negative means eligible today.
func DaysUntil(next, now time.Time) int {
	return int(math.Ceil(next.Sub(now).Hours() / 24))
}

// LivesSaved is the tracker's headline estimate: three lives per donation.
func LivesSaved(totalDonations int) int {
	return totalDonations * 3
}

// Answer is one wizard step response.
type Answer struct {
	Step  int    `json:"step"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// WizardResult summarizes the three-step eligibility wizard.
type WizardResult struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Evaluate applies the wizard's hard rules: age 18-65, weight >= 50kg, no
// recent tattoo (under 6 months), not currently ill.
func Evaluate(age int, weightKg float64, recentTattoo, currentlyIll bool) WizardResult {
	var reasons []string
	if age < 18 || age > 65 {
		reasons = append(reasons, "Donors must be between 18 and 65 years old.")
	}
	if weightKg < 50 {
		reasons = append(reasons, "Donors must weigh at least 50 kg.")
	}
	if recentTattoo {
		reasons = append(reasons, "A tattoo or piercing in the last 6 months defers donation.")
	}
	if currentlyIll {
		reasons = append(reasons, "Wait until you have fully recovered before donating.")
	}
	return WizardResult{Eligible: len(reasons) == 0, Reasons: reasons}
}
