package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/transport/http/handler"
)

func TestFeed_MapsRequestsToCards(t *testing.T) {
	store, _ := testStore()
	fake := &fakeAPI{call: func(_ context.Context, endpoint string, _ api.CallOptions) (*api.Envelope, error) {
		if endpoint != "/requests/search?status=open&limit=20" {
			t.Errorf("endpoint = %q", endpoint)
		}
		return &api.Envelope{Success: true, Data: json.RawMessage(`{"requests":[
			{"request_id":"r-1","requester_name":"Ahmed","blood_group_needed":"O-","units_needed":2,
			 "urgency_level":"critical","city":"Karachi","hospital_name":"Aga Khan","status":"open",
			 "created_at":"2026-01-01T00:00:00Z"},
			{"request_id":"r-2","requester_name":"Sana","blood_group_needed":"A+","units_needed":1,
			 "urgency_level":"urgent","city":"Lahore","hospital_name":"","status":"open",
			 "created_at":"2026-01-01T00:00:00Z"}
		]}`)}, nil
	}}

	h := handler.NewEmergencyHandler(fake, store, testLogger())
	r := newEngine(func(r *gin.Engine) { r.GET("/api/requests", h.Feed) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/requests", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Requests []struct {
			Hospital     string `json:"hospital"`
			Urgency      string `json:"urgency"`
			UrgencyClass string `json:"urgency_class"`
			Critical     bool   `json:"critical"`
			Notes        string `json:"notes"`
		} `json:"requests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(resp.Requests))
	}

	first := resp.Requests[0]
	if first.Urgency != "Critical" || !first.Critical {
		t.Errorf("first card = %+v, want critical", first)
	}
	if !strings.Contains(first.UrgencyClass, "red") {
		t.Errorf("urgency class = %q, want red styling", first.UrgencyClass)
	}
	if first.Notes != "2 unit(s) needed • open" {
		t.Errorf("notes = %q", first.Notes)
	}

	if resp.Requests[1].Hospital != "Hospital Not Specified" {
		t.Errorf("hospital fallback = %q", resp.Requests[1].Hospital)
	}
}

func TestFeed_BadTimestampReadsJustNow(t *testing.T) {
	store, _ := testStore()
	fake := &fakeAPI{call: func(_ context.Context, _ string, _ api.CallOptions) (*api.Envelope, error) {
		return &api.Envelope{Success: true, Data: json.RawMessage(`{"requests":[
			{"request_id":"r-1","blood_group_needed":"O-","units_needed":1,
			 "urgency_level":"urgent","status":"open","created_at":"yesterday"}
		]}`)}, nil
	}}

	h := handler.NewEmergencyHandler(fake, store, testLogger())
	r := newEngine(func(r *gin.Engine) { r.GET("/api/requests", h.Feed) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/requests", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Requests []struct {
			TimeAgo string `json:"time_ago"`
		} `json:"requests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(resp.Requests))
	}
	if resp.Requests[0].TimeAgo != "Just now" {
		t.Errorf("time_ago = %q, want %q", resp.Requests[0].TimeAgo, "Just now")
	}
}

func TestFeed_BloodGroupFilter(t *testing.T) {
	store, _ := testStore()
	fake := &fakeAPI{call: func(_ context.Context, _ string, _ api.CallOptions) (*api.Envelope, error) {
		return &api.Envelope{Success: true, Data: json.RawMessage(`{"requests":[
			{"request_id":"r-1","blood_group_needed":"O-","urgency_level":"urgent","created_at":"2026-01-01T00:00:00Z"},
			{"request_id":"r-2","blood_group_needed":"A+","urgency_level":"urgent","created_at":"2026-01-01T00:00:00Z"}
		]}`)}, nil
	}}

	h := handler.NewEmergencyHandler(fake, store, testLogger())
	r := newEngine(func(r *gin.Engine) { r.GET("/api/requests", h.Feed) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/requests?blood_group=A%2B", nil))

	var resp struct {
		Requests []struct {
			RequestID string `json:"request_id"`
		} `json:"requests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Requests) != 1 || resp.Requests[0].RequestID != "r-2" {
		t.Errorf("requests = %+v, want only r-2", resp.Requests)
	}
}

func TestCreate_ToastReportsMatchedDonors(t *testing.T) {
	store, _ := testStore()
	var gotBody gin.H
	fake := &fakeAPI{call: func(_ context.Context, endpoint string, opts api.CallOptions) (*api.Envelope, error) {
		if endpoint != "/requests/create" {
			t.Errorf("endpoint = %q", endpoint)
		}
		gotBody, _ = opts.Body.(gin.H)
		return &api.Envelope{Success: true, Data: json.RawMessage(
			`{"request_id":"r-9","matched_donors_count":4}`)}, nil
	}}

	h := handler.NewEmergencyHandler(fake, store, testLogger())
	r := newEngine(func(r *gin.Engine) { r.POST("/api/requests", h.Create) })

	w := postJSON(r, "/api/requests", `{
		"patient_name": "Ahmed",
		"contact": "03001234567",
		"blood_group": "O-",
		"units": 2,
		"urgency": "Critical",
		"city": "Karachi",
		"hospital": "Aga Khan"
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	if gotBody["urgency_level"] != "critical" {
		t.Errorf("urgency_level = %v, want lowercased", gotBody["urgency_level"])
	}
	if gotBody["units_needed"] != 2 {
		t.Errorf("units_needed = %v", gotBody["units_needed"])
	}
	if !strings.Contains(w.Body.String(), "4 donor(s) matched") {
		t.Errorf("body = %s, want matched-donor toast", w.Body.String())
	}
}

func TestCreate_DefaultsAnonymousAndOneUnit(t *testing.T) {
	store, _ := testStore()
	var gotBody gin.H
	fake := &fakeAPI{call: func(_ context.Context, _ string, opts api.CallOptions) (*api.Envelope, error) {
		gotBody, _ = opts.Body.(gin.H)
		return &api.Envelope{Success: true, Data: json.RawMessage(`{"matched_donors_count":0}`)}, nil
	}}

	h := handler.NewEmergencyHandler(fake, store, testLogger())
	r := newEngine(func(r *gin.Engine) { r.POST("/api/requests", h.Create) })

	w := postJSON(r, "/api/requests", `{"contact":"0300","blood_group":"B+","city":"Multan"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if gotBody["requester_name"] != "Anonymous" {
		t.Errorf("requester_name = %v, want Anonymous", gotBody["requester_name"])
	}
	if gotBody["units_needed"] != 1 {
		t.Errorf("units_needed = %v, want 1", gotBody["units_needed"])
	}
	if gotBody["urgency_level"] != "urgent" {
		t.Errorf("urgency_level = %v, want urgent default", gotBody["urgency_level"])
	}
}
