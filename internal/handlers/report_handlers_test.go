package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestPercentOf(t *testing.T) {
	cases := []struct {
		part, total int64
		want        int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{10, 10, 100},
	}
	for _, c := range cases {
		if got := percentOf(c.part, c.total); got != c.want {
			t.Errorf("percentOf(%d, %d) = %d, want %d", c.part, c.total, got, c.want)
		}
	}
}

func TestParseReportDateRange(t *testing.T) {
	start, end, err := parseReportDateRange("2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("valid range: %v", err)
	}
	if start.Format(reportDateLayout) != "2026-01-01" || end.Format(reportDateLayout) != "2026-01-31" {
		t.Fatalf("parsed range %v .. %v", start, end)
	}

	// Defaults: trailing 30 days ending today.
	start, end, err = parseReportDateRange("", "")
	if err != nil {
		t.Fatalf("default range: %v", err)
	}
	if got := end.Sub(start); got < 29*24*time.Hour || got > 31*24*time.Hour {
		t.Fatalf("default window is %v, want ~30 days", got)
	}

	if _, _, err := parseReportDateRange("01/02/2026", ""); err == nil {
		t.Fatal("expected error for non-ISO start date")
	}
	if _, _, err := parseReportDateRange("", "tomorrow"); err == nil {
		t.Fatal("expected error for malformed end date")
	}
}

// The by-date endpoint reads the client's startDate/endDate params and
// validates them before any database work, so these run against an empty
// Handlers value.
func TestIdeasByDateParamValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handlers{}
	r := gin.New()
	r.GET("/reports/ideas/by-date", h.GetIdeasByDate)

	cases := []struct {
		name  string
		query string
	}{
		{"bad startDate", "?startDate=notadate"},
		{"bad endDate", "?endDate=31-01-2026"},
		{"endDate before startDate", "?startDate=2026-02-01&endDate=2026-01-01"},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/reports/ideas/by-date"+c.query, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, w.Code)
		}
	}
}

// The client's report mappers read fixed JSON keys; a renamed field would
// silently blank out the dashboards.
func TestReportJSONKeysMatchClientMappers(t *testing.T) {
	cat, err := json.Marshal(categoryReport{CategoryID: 1, CategoryName: "Ops"})
	if err != nil {
		t.Fatal(err)
	}
	var catKeys map[string]interface{}
	if err := json.Unmarshal(cat, &catKeys); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"categoryId", "categoryName", "ideasSubmitted", "approvedIdeas", "rejectedIdeas", "underReviewIdeas", "approvalRate"} {
		if _, ok := catKeys[key]; !ok {
			t.Errorf("category report JSON missing key %q", key)
		}
	}

	dist, err := json.Marshal(statusCount{Status: "Approved", Count: 3, Percentage: 50})
	if err != nil {
		t.Fatal(err)
	}
	var distKeys map[string]interface{}
	if err := json.Unmarshal(dist, &distKeys); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"status", "count", "percentage"} {
		if _, ok := distKeys[key]; !ok {
			t.Errorf("status distribution JSON missing key %q", key)
		}
	}

	sys, err := json.Marshal(systemReport{})
	if err != nil {
		t.Fatal(err)
	}
	var sysKeys map[string]interface{}
	if err := json.Unmarshal(sys, &sysKeys); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		"totalIdeas", "totalApprovedIdeas", "totalRejectedIdeas", "totalUnderReviewIdeas",
		"totalUsers", "totalManagers", "totalEmployees", "totalAdmins",
		"totalCategories", "activeCategories", "approvalRate",
		"ideaStatusDistribution", "categoryReports",
	} {
		if _, ok := sysKeys[key]; !ok {
			t.Errorf("system overview JSON missing key %q", key)
		}
	}
}
