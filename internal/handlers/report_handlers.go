package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

//
// --- Report Handlers ---
//
// Read-only aggregates for the dashboard pages. Every handler is a single
// query (or a small fixed set) so reports never hold locks that could slow
// the submission and review paths. JSON keys follow the client's report
// mappers exactly (ideasSubmitted, approvedIdeas, percentage, ...).
//

// percentOf returns the rounded share of part in total, 0 when total is 0.
func percentOf(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// statusCount is one row of the status distribution report.
type statusCount struct {
	Status     string `json:"status"`
	Count      int64  `json:"count"`
	Percentage int    `json:"percentage"`
}

// queryStatusDistribution groups ideas by status and fills in each row's
// share of the total.
func (h *Handlers) queryStatusDistribution() ([]statusCount, error) {
	rows, err := h.DB.Query("SELECT status, COUNT(*) FROM ideas GROUP BY status ORDER BY status ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	distribution := []statusCount{}
	var total int64
	for rows.Next() {
		var sc statusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		total += sc.Count
		distribution = append(distribution, sc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for i := range distribution {
		distribution[i].Percentage = percentOf(distribution[i].Count, total)
	}
	return distribution, nil
}

// GetStatusDistribution is the handler for GET /api/reports/ideas/status-distribution.
func (h *Handlers) GetStatusDistribution(c *gin.Context) {
	distribution, err := h.queryStatusDistribution()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	c.JSON(http.StatusOK, distribution)
}

// categoryReport is one row of the per-category reports, keyed the way the
// client's category mapper reads it.
type categoryReport struct {
	CategoryID       int64  `json:"categoryId"`
	CategoryName     string `json:"categoryName"`
	IdeasSubmitted   int64  `json:"ideasSubmitted"`
	ApprovedIdeas    int64  `json:"approvedIdeas"`
	RejectedIdeas    int64  `json:"rejectedIdeas"`
	UnderReviewIdeas int64  `json:"underReviewIdeas"`
	ApprovalRate     int    `json:"approvalRate"`
}

const categoryReportSelect = `
	SELECT c.id, c.name,
	       COUNT(i.id) AS idea_count,
	       COALESCE(SUM(i.status = 'Approved'), 0),
	       COALESCE(SUM(i.status = 'Rejected'), 0),
	       COALESCE(SUM(i.status = 'UnderReview'), 0)
	FROM categories c
	LEFT JOIN ideas i ON i.category_id = c.id`

// queryCategoryReports runs a full categoryReportSelect query and maps the
// rows, computing each category's approval rate.
func (h *Handlers) queryCategoryReports(query string, args ...interface{}) ([]categoryReport, error) {
	rows, err := h.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []categoryReport{}
	for rows.Next() {
		var r categoryReport
		if err := rows.Scan(&r.CategoryID, &r.CategoryName, &r.IdeasSubmitted, &r.ApprovedIdeas, &r.RejectedIdeas, &r.UnderReviewIdeas); err != nil {
			return nil, err
		}
		r.ApprovalRate = percentOf(r.ApprovedIdeas, r.IdeasSubmitted)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// GetCategoryReports is the handler for GET /api/reports/categories.
func (h *Handlers) GetCategoryReports(c *gin.Context) {
	reports, err := h.queryCategoryReports(categoryReportSelect + " GROUP BY c.id, c.name ORDER BY idea_count DESC, c.name ASC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetCategoryReport is the handler for GET /api/reports/category/:categoryId.
func (h *Handlers) GetCategoryReport(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("categoryId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	reports, err := h.queryCategoryReports(categoryReportSelect+" WHERE c.id = ? GROUP BY c.id, c.name", categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	if len(reports) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, reports[0])
}

// systemReport is the full dashboard payload for the admin overview page.
type systemReport struct {
	TotalIdeas             int64            `json:"totalIdeas"`
	TotalApprovedIdeas     int64            `json:"totalApprovedIdeas"`
	TotalRejectedIdeas     int64            `json:"totalRejectedIdeas"`
	TotalUnderReviewIdeas  int64            `json:"totalUnderReviewIdeas"`
	TotalUsers             int64            `json:"totalUsers"`
	TotalManagers          int64            `json:"totalManagers"`
	TotalEmployees         int64            `json:"totalEmployees"`
	TotalAdmins            int64            `json:"totalAdmins"`
	TotalCategories        int64            `json:"totalCategories"`
	ActiveCategories       int64            `json:"activeCategories"`
	ApprovalRate           int              `json:"approvalRate"`
	IdeaStatusDistribution []statusCount    `json:"ideaStatusDistribution"`
	CategoryReports        []categoryReport `json:"categoryReports"`
}

// GetSystemOverview is the handler for GET /api/reports/system-overview.
// One payload with the headline counts plus the embedded distribution and
// category breakdowns, so the admin dashboard loads with a single request.
func (h *Handlers) GetSystemOverview(c *gin.Context) {
	var report systemReport

	// 1. --- Idea Counts by Status ---
	distribution, err := h.queryStatusDistribution()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute idea counts"})
		return
	}
	report.IdeaStatusDistribution = distribution
	for _, sc := range distribution {
		report.TotalIdeas += sc.Count
		switch sc.Status {
		case "Approved":
			report.TotalApprovedIdeas = sc.Count
		case "Rejected":
			report.TotalRejectedIdeas = sc.Count
		case "UnderReview":
			report.TotalUnderReviewIdeas = sc.Count
		}
	}
	report.ApprovalRate = percentOf(report.TotalApprovedIdeas, report.TotalIdeas)

	// 2. --- User Counts by Role ---
	roleRows, err := h.DB.Query("SELECT role, COUNT(*) FROM users GROUP BY role")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute user counts"})
		return
	}
	for roleRows.Next() {
		var role string
		var count int64
		if err := roleRows.Scan(&role, &count); err != nil {
			roleRows.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan user counts"})
			return
		}
		report.TotalUsers += count
		switch role {
		case "manager":
			report.TotalManagers = count
		case "employee":
			report.TotalEmployees = count
		case "admin":
			report.TotalAdmins = count
		}
	}
	roleRows.Close()
	if err = roleRows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating user counts"})
		return
	}

	// 3. --- Category Counts ---
	err = h.DB.QueryRow("SELECT COUNT(*), COALESCE(SUM(is_active), 0) FROM categories").
		Scan(&report.TotalCategories, &report.ActiveCategories)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute category counts"})
		return
	}

	// 4. --- Category Breakdown ---
	report.CategoryReports, err = h.queryCategoryReports(categoryReportSelect + " GROUP BY c.id, c.name ORDER BY idea_count DESC, c.name ASC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute category reports"})
		return
	}

	c.JSON(http.StatusOK, report)
}

const reportDateLayout = "2006-01-02"

// parseReportDateRange reads the startDate/endDate query params the client
// sends, defaulting to the trailing 30 days. Both bounds are inclusive
// YYYY-MM-DD dates.
func parseReportDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if startStr != "" {
		parsed, err := time.Parse(reportDateLayout, startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}
	if endStr != "" {
		parsed, err := time.Parse(reportDateLayout, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}
	return start, end, nil
}

// GetIdeasByDate is the handler for GET /api/reports/ideas/by-date.
func (h *Handlers) GetIdeasByDate(c *gin.Context) {
	start, end, err := parseReportDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'endDate' must not be before 'startDate'"})
		return
	}

	query := `
		SELECT DATE(submitted_date) AS day, COUNT(*)
		FROM ideas
		WHERE DATE(submitted_date) BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day ASC`

	rows, err := h.DB.Query(query, start.Format(reportDateLayout), end.Format(reportDateLayout))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	type dayCount struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}
	counts := []dayCount{}
	for rows.Next() {
		var dc dayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan report row"})
			return
		}
		counts = append(counts, dc)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating report rows"})
		return
	}

	c.JSON(http.StatusOK, counts)
}

// GetTopCategories is the handler for GET /api/reports/top-categories.
// ?limit= defaults to 5 and is clamped to [1, 50]. Categories with no
// ideas never rank.
func (h *Handlers) GetTopCategories(c *gin.Context) {
	limit := 5
	if s := c.Query("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' value"})
			return
		}
		limit = parsed
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	query := categoryReportSelect + `
		GROUP BY c.id, c.name
		HAVING idea_count > 0
		ORDER BY idea_count DESC, c.name ASC
		LIMIT ?`

	top, err := h.queryCategoryReports(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, top)
}

// GetApprovalTrends is the handler for GET /api/reports/approval-trends.
// Buckets review decisions per calendar month; ?months= defaults to 6 and
// is clamped to [1, 24].
func (h *Handlers) GetApprovalTrends(c *gin.Context) {
	months := 6
	if s := c.Query("months"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'months' value"})
			return
		}
		months = parsed
	}
	if months < 1 {
		months = 1
	}
	if months > 24 {
		months = 24
	}

	query := `
		SELECT DATE_FORMAT(review_date, '%Y-%m') AS month,
		       COALESCE(SUM(decision = 'Approve'), 0),
		       COALESCE(SUM(decision = 'Reject'), 0)
		FROM reviews
		WHERE review_date >= DATE_SUB(CURDATE(), INTERVAL ? MONTH)
		GROUP BY month
		ORDER BY month ASC`

	rows, err := h.DB.Query(query, months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	type monthlyTrend struct {
		Month        string `json:"month"`
		Approved     int64  `json:"approvedCount"`
		Rejected     int64  `json:"rejectedCount"`
		ApprovalRate int    `json:"approvalRate"`
	}
	trends := []monthlyTrend{}
	for rows.Next() {
		var mt monthlyTrend
		if err := rows.Scan(&mt.Month, &mt.Approved, &mt.Rejected); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan report row"})
			return
		}
		mt.ApprovalRate = percentOf(mt.Approved, mt.Approved+mt.Rejected)
		trends = append(trends, mt)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating report rows"})
		return
	}

	c.JSON(http.StatusOK, trends)
}

// GetEmployeeContributions is the handler for GET /api/reports/employee-contributions.
func (h *Handlers) GetEmployeeContributions(c *gin.Context) {
	query := `
		SELECT u.id, u.name,
		       COUNT(DISTINCT i.id) AS idea_count,
		       COALESCE(SUM(i.status = 'Approved'), 0) AS approved_count,
		       (SELECT COUNT(*) FROM votes v WHERE v.user_id = u.id) AS vote_count,
		       (SELECT COUNT(*) FROM comments cm WHERE cm.user_id = u.id) AS comment_count
		FROM users u
		LEFT JOIN ideas i ON i.user_id = u.id
		WHERE u.role = 'employee'
		GROUP BY u.id, u.name
		ORDER BY idea_count DESC, u.name ASC`

	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	type contribution struct {
		UserID       int64  `json:"userId"`
		UserName     string `json:"userName"`
		IdeaCount    int64  `json:"ideaCount"`
		Approved     int64  `json:"approvedCount"`
		VoteCount    int64  `json:"voteCount"`
		CommentCount int64  `json:"commentCount"`
	}
	contributions := []contribution{}
	for rows.Next() {
		var ct contribution
		if err := rows.Scan(&ct.UserID, &ct.UserName, &ct.IdeaCount, &ct.Approved, &ct.VoteCount, &ct.CommentCount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan report row"})
			return
		}
		contributions = append(contributions, ct)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating report rows"})
		return
	}

	c.JSON(http.StatusOK, contributions)
}

// GetUserActivity is the handler for GET /api/reports/users/activity.
// Counts cover every role, so reviewer workloads show up next to
// employee submissions.
func (h *Handlers) GetUserActivity(c *gin.Context) {
	query := `
		SELECT u.id, u.name, u.role, u.status,
		       (SELECT COUNT(*) FROM ideas i WHERE i.user_id = u.id) AS idea_count,
		       (SELECT COUNT(*) FROM reviews r WHERE r.reviewer_id = u.id) AS review_count,
		       (SELECT COUNT(*) FROM votes v WHERE v.user_id = u.id) AS vote_count,
		       (SELECT COUNT(*) FROM comments cm WHERE cm.user_id = u.id) AS comment_count
		FROM users u
		ORDER BY u.name ASC`

	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	type userActivity struct {
		UserID       int64  `json:"userId"`
		UserName     string `json:"userName"`
		Role         string `json:"role"`
		Status       string `json:"status"`
		IdeaCount    int64  `json:"ideaCount"`
		ReviewCount  int64  `json:"reviewCount"`
		VoteCount    int64  `json:"voteCount"`
		CommentCount int64  `json:"commentCount"`
	}
	activity := []userActivity{}
	for rows.Next() {
		var ua userActivity
		if err := rows.Scan(&ua.UserID, &ua.UserName, &ua.Role, &ua.Status, &ua.IdeaCount, &ua.ReviewCount, &ua.VoteCount, &ua.CommentCount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan report row"})
			return
		}
		activity = append(activity, ua)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating report rows"})
		return
	}

	c.JSON(http.StatusOK, activity)
}
