package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/brainstorm-app/brainstorm-golang/internal/middleware"
	"github.com/brainstorm-app/brainstorm-golang/internal/models"
	"github.com/brainstorm-app/brainstorm-golang/internal/rules"
	"github.com/gin-gonic/gin"
)

//
// --- Manager: Review Handlers ---
//
// All status mutations go through applyStatusChange: lock the idea row,
// run the access policy and validation, write the new state and the
// append-only review record, notify the author, all in one transaction, so
// a failed transition leaves the idea untouched.
//

func actorFromContext(c *gin.Context) rules.Actor {
	return rules.Actor{
		UserID: c.GetInt64(middleware.CtxUserID),
		Role:   c.GetString(middleware.CtxUserRole),
		Name:   c.GetString(middleware.CtxUserName),
	}
}

// applyStatusChange performs one validated status transition and returns
// the idea's ID. The HTTP response has already been written when err != nil.
func (h *Handlers) applyStatusChange(c *gin.Context, ideaIDStr, targetStatus, feedback, reviewComment string) (int64, error) {
	actor := actorFromContext(c)

	// 1. --- Begin Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return 0, err
	}
	defer tx.Rollback()

	// 2. --- Lock & Load the Idea ---
	var idea models.Idea
	query := "SELECT id, user_id, status, reviewed_by_id, title FROM ideas WHERE id = ? FOR UPDATE"
	err = tx.QueryRow(query, ideaIDStr).Scan(&idea.ID, &idea.UserID, &idea.Status, &idea.ReviewedByID, &idea.Title)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
			return 0, err
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load idea"})
		return 0, err
	}

	// 3. --- Policy & Validation ---
	if err := rules.AuthorizeStatusChange(&idea, actor, targetStatus, reviewComment); err != nil {
		if errors.Is(err, rules.ErrPermissionDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the original reviewer may revise this idea's status"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required when rejecting an idea"})
		}
		return 0, err
	}

	// 4. --- Apply the Transition ---
	switch targetStatus {
	case rules.StatusRejected:
		// Reviewer identity is last-writer-wins; the mandatory reason is
		// kept on the idea itself.
		_, err = tx.Exec("UPDATE ideas SET status = ?, reviewed_by_id = ?, review_comment = ? WHERE id = ?",
			targetStatus, actor.UserID, reviewComment, idea.ID)
	case rules.StatusApproved:
		_, err = tx.Exec("UPDATE ideas SET status = ?, reviewed_by_id = ?, review_comment = NULL WHERE id = ?",
			targetStatus, actor.UserID, idea.ID)
	default: // back to UnderReview; the reviewer stamp survives the revert
		_, err = tx.Exec("UPDATE ideas SET status = ?, review_comment = NULL WHERE id = ?",
			targetStatus, idea.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update idea status"})
		return 0, err
	}

	// 5. --- Append the Review Record ---
	// Approve and Reject land in the append-only review log; a revert to
	// UnderReview is a pure status change and leaves no record, and a
	// reviewer re-applying the current status does not duplicate one.
	if rules.RecordsDecision(idea.Status, targetStatus) {
		decision := models.DecisionApprove
		text := feedback
		if targetStatus == rules.StatusRejected {
			decision = models.DecisionReject
			if text == "" {
				text = reviewComment
			}
		}
		_, err = tx.Exec("INSERT INTO reviews (idea_id, reviewer_id, feedback, decision, review_date) VALUES (?, ?, ?, ?, ?)",
			idea.ID, actor.UserID, text, decision, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record review"})
			return 0, err
		}

		// 6. --- Notify the Author ---
		verb := "approved"
		if decision == models.DecisionReject {
			verb = "rejected"
		}
		message := fmt.Sprintf("Your idea %q has been %s by %s", idea.Title, verb, actor.Name)
		if err := h.AddNotification(tx, idea.UserID, models.NotifReviewDecision, message, idea.ID, actor.UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
			return 0, err
		}
	}

	// 7. --- Commit ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return 0, err
	}

	return idea.ID, nil
}

// SubmitReviewInput is the JSON body for POST /api/review/submit.
type SubmitReviewInput struct {
	IdeaID          int64  `json:"ideaId" binding:"required"`
	Feedback        string `json:"feedback"`
	Decision        string `json:"decision" binding:"required,oneof=Approve Reject"`
	RejectionReason string `json:"rejectionReason"`
}

// SubmitReview is the handler for POST /api/review/submit.
// A decision both transitions the idea and appends to the review log.
func (h *Handlers) SubmitReview(c *gin.Context) {
	var input SubmitReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetStatus, err := rules.DecisionToStatus(input.Decision)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown decision"})
		return
	}

	// The rejection reason doubles as the stored review comment; fall back
	// to the feedback text if the client sent only that.
	reason := input.RejectionReason
	if reason == "" {
		reason = input.Feedback
	}

	ideaID, err := h.applyStatusChange(c, fmt.Sprint(input.IdeaID), targetStatus, input.Feedback, reason)
	if err != nil {
		return
	}
	h.refreshIdeaInStore(ideaID)

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Review submitted: idea %s", targetStatus)})
}

// ChangeStatusInput is the JSON body for PUT /api/review/ideas/:id/status.
type ChangeStatusInput struct {
	Status        string `json:"status" binding:"required"`
	ReviewComment string `json:"reviewComment"`
}

// ChangeIdeaStatus is the handler for PUT /api/review/ideas/:id/status.
// Used both to take a decision directly and to pull a decided idea back to
// UnderReview (which only its original reviewer may do).
func (h *Handlers) ChangeIdeaStatus(c *gin.Context) {
	var input ChangeStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ideaID, err := h.applyStatusChange(c, c.Param("id"), input.Status, "", input.ReviewComment)
	if err != nil {
		return
	}
	h.refreshIdeaInStore(ideaID)

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Idea status changed to %s", input.Status)})
}

// SubmitFeedbackInput is the JSON body for POST /api/review/ideas/:id/feedback.
type SubmitFeedbackInput struct {
	Feedback string `json:"feedback" binding:"required"`
}

// SubmitFeedback is the handler for POST /api/review/ideas/:id/feedback.
// Manager commentary without a status change: it lands in the comment log,
// not the review log.
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	actor := actorFromContext(c)
	ideaIDStr := c.Param("id")

	var input SubmitFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var idea models.Idea
	err = tx.QueryRow("SELECT id, user_id, title FROM ideas WHERE id = ?", ideaIDStr).Scan(&idea.ID, &idea.UserID, &idea.Title)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load idea"})
		return
	}

	_, err = tx.Exec("INSERT INTO comments (idea_id, user_id, text, is_downvote_comment, created_date) VALUES (?, ?, ?, 0, ?)",
		idea.ID, actor.UserID, input.Feedback, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store feedback"})
		return
	}

	if idea.UserID != actor.UserID {
		message := fmt.Sprintf("%s left feedback on your idea %q", actor.Name, idea.Title)
		if err := h.AddNotification(tx, idea.UserID, models.NotifNewComment, message, idea.ID, actor.UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback submitted"})
}

// queryReviews returns reviews (with reviewer names) for a WHERE tail,
// oldest first. The log is chronological.
func (h *Handlers) queryReviews(where string, args ...interface{}) ([]models.Review, error) {
	query := `
		SELECT r.id, r.idea_id, r.reviewer_id, r.feedback, r.decision, r.review_date,
		       u.name AS reviewer_name
		FROM reviews r
		JOIN users u ON r.reviewer_id = u.id ` + where + `
		ORDER BY r.review_date ASC, r.id ASC`

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.IdeaID, &r.ReviewerID, &r.Feedback, &r.Decision, &r.ReviewDate, &r.ReviewerName); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// GetReviewsForIdea is the handler for GET /api/review/idea/:id.
func (h *Handlers) GetReviewsForIdea(c *gin.Context) {
	reviews, err := h.queryReviews("WHERE r.idea_id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GetMyReviews is the handler for GET /api/review/manager/my-reviews.
func (h *Handlers) GetMyReviews(c *gin.Context) {
	reviews, err := h.queryReviews("WHERE r.reviewer_id = ?", c.GetInt64(middleware.CtxUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GetIdeasForReview is the handler for GET /api/review/ideas.
// The whole list goes back; the client filters by status tab.
func (h *Handlers) GetIdeasForReview(c *gin.Context) {
	ideas, err := h.queryIdeas("")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	h.Ideas.SetAll(ideas)
	c.JSON(http.StatusOK, ideaResponses(ideas))
}

// GetIdeasByStatus is the handler for GET /api/review/ideas/status/:status.
func (h *Handlers) GetIdeasByStatus(c *gin.Context) {
	status := c.Param("status")
	if !rules.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	ideas, err := h.queryIdeas("WHERE i.status = ?", status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	c.JSON(http.StatusOK, ideaResponses(ideas))
}

// GetIdeaWithDetails is the handler for GET /api/review/ideas/:id.
// One payload with the idea plus its review and comment history, so the
// decision screen loads with a single request.
func (h *Handlers) GetIdeaWithDetails(c *gin.Context) {
	ideaID := c.Param("id")

	idea, err := scanIdea(h.DB.QueryRow(ideaSelect+" WHERE i.id = ?", ideaID))
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load idea"})
		return
	}

	reviews, err := h.queryReviews("WHERE r.idea_id = ?", ideaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	comments, err := h.queryComments(idea.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"idea":     idea.ToResponse(),
		"reviews":  reviews,
		"comments": comments,
	})
}
