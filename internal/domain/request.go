package domain

// RequestStatus values accepted by PUT /requests/status.
type RequestStatus string

const (
	StatusOpen       RequestStatus = "open"
	StatusInProgress RequestStatus = "in_progress"
	StatusFulfilled  RequestStatus = "fulfilled"
	StatusCancelled  RequestStatus = "cancelled"
	StatusClosed     RequestStatus = "closed"
)

func ValidRequestStatus(s string) bool {
	switch RequestStatus(s) {
	case StatusOpen, StatusInProgress, StatusFulfilled, StatusCancelled, StatusClosed:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyRoutine  Urgency = "routine"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

// EmergencyRequest mirrors the records returned by /requests/search and
// /admin/requests.
type EmergencyRequest struct {
	RequestID      string `json:"request_id"`
	RequesterName  string `json:"requester_name"`
	RequesterPhone string `json:"requester_phone"`
	RequesterEmail string `json:"requester_email"`
	PatientName    string `json:"patient_name"`
	BloodGroup     string `json:"blood_group_needed"`
	UnitsNeeded    int    `json:"units_needed"`
	UrgencyLevel   string `json:"urgency_level"`
	City           string `json:"city"`
	HospitalName   string `json:"hospital_name"`
	Reason         string `json:"reason_for_need"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}
