package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/brainstorm-app/brainstorm-golang/internal/middleware"
	"github.com/brainstorm-app/brainstorm-golang/internal/models"
	"github.com/brainstorm-app/brainstorm-golang/internal/rules"
	"github.com/gin-gonic/gin"
)

//
// --- Idea Handlers ---
//

// ideaSelect is the joined projection every idea list view uses: the idea
// row plus author, category and (optional) reviewer names.
const ideaSelect = `
	SELECT i.id, i.title, i.description, i.category_id, i.user_id, i.status,
	       i.upvotes, i.downvotes, i.reviewed_by_id, i.review_comment, i.submitted_date,
	       u.name AS author_name,
	       c.name AS category_name,
	       COALESCE(r.name, '') AS reviewer_name
	FROM ideas i
	JOIN users u ON i.user_id = u.id
	JOIN categories c ON i.category_id = c.id
	LEFT JOIN users r ON i.reviewed_by_id = r.id`

// scanIdea scans one row of the ideaSelect projection.
func scanIdea(row interface{ Scan(...interface{}) error }) (*models.Idea, error) {
	var idea models.Idea
	err := row.Scan(
		&idea.ID,
		&idea.Title,
		&idea.Description,
		&idea.CategoryID,
		&idea.UserID,
		&idea.Status,
		&idea.Upvotes,
		&idea.Downvotes,
		&idea.ReviewedByID,
		&idea.ReviewComment,
		&idea.SubmittedDate,
		&idea.SubmittedByUserName,
		&idea.CategoryName,
		&idea.ReviewedByName,
	)
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

// queryIdeas runs the joined projection with an optional WHERE tail and
// returns the mapped list.
func (h *Handlers) queryIdeas(where string, args ...interface{}) ([]models.Idea, error) {
	query := ideaSelect
	if where != "" {
		query += " " + where
	}
	query += " ORDER BY i.submitted_date DESC, i.id DESC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ideas []models.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, *idea)
	}
	return ideas, rows.Err()
}

// getIdeaByID fetches one idea through the joined projection.
func (h *Handlers) getIdeaByID(ideaID int64) (*models.Idea, error) {
	return scanIdea(h.DB.QueryRow(ideaSelect+" WHERE i.id = ?", ideaID))
}

// refreshIdeaInStore re-reads one idea after a committed write and
// republishes it. The store is only ever updated from confirmed state,
// never optimistically.
func (h *Handlers) refreshIdeaInStore(ideaID int64) {
	idea, err := h.getIdeaByID(ideaID)
	if err != nil {
		// The store is a cache; a failed refresh just means subscribers
		// see the previous snapshot until the next read.
		return
	}
	h.Ideas.Upsert(*idea)
}

func ideaResponses(ideas []models.Idea) []*models.IdeaResponse {
	out := make([]*models.IdeaResponse, 0, len(ideas))
	for i := range ideas {
		out = append(out, ideas[i].ToResponse())
	}
	return out
}

// GetAllIdeas is the handler for GET /api/Idea/all.
func (h *Handlers) GetAllIdeas(c *gin.Context) {
	ideas, err := h.queryIdeas("")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	// A full read refreshes the published snapshot.
	h.Ideas.SetAll(ideas)

	c.JSON(http.StatusOK, ideaResponses(ideas))
}

// GetMyIdeas is the handler for GET /api/Idea/my-ideas.
func (h *Handlers) GetMyIdeas(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)

	ideas, err := h.queryIdeas("WHERE i.user_id = ?", userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, ideaResponses(ideas))
}

// SubmitIdeaInput is the JSON body for POST /api/Idea/submit.
type SubmitIdeaInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	CategoryID  int64  `json:"categoryId" binding:"required"`
}

// SubmitIdea is the handler for POST /api/Idea/submit.
// New ideas always start in UnderReview; every manager gets a NewIdea
// notification so the review queue stays fresh without polling the list.
func (h *Handlers) SubmitIdea(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)
	userName := c.GetString(middleware.CtxUserName)

	// 1. --- Bind & Validate JSON ---
	var input SubmitIdeaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Check the Category ---
	var isActive bool
	err := h.DB.QueryRow("SELECT is_active FROM categories WHERE id = ?", input.CategoryID).Scan(&isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	if !isActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This category is no longer accepting ideas"})
		return
	}

	// 3. --- Begin Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	// 4. --- Insert the Idea ---
	query := `
		INSERT INTO ideas (title, description, category_id, user_id, status, upvotes, downvotes, submitted_date)
		VALUES (?, ?, ?, ?, ?, 0, 0, ?)`

	result, err := tx.Exec(query, input.Title, input.Description, input.CategoryID, userID, rules.StatusUnderReview, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create idea"})
		return
	}
	ideaID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read new idea id"})
		return
	}

	// 5. --- Notify the Managers ---
	managerRows, err := tx.Query("SELECT id FROM users WHERE role = ? AND status = ?", models.RoleManager, models.UserActive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up managers"})
		return
	}
	var managerIDs []int64
	for managerRows.Next() {
		var id int64
		if err := managerRows.Scan(&id); err != nil {
			managerRows.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan manager row"})
			return
		}
		managerIDs = append(managerIDs, id)
	}
	managerRows.Close()
	if err = managerRows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating manager rows"})
		return
	}

	message := fmt.Sprintf("%s submitted a new idea: %q", userName, input.Title)
	for _, managerID := range managerIDs {
		if err := h.AddNotification(tx, managerID, models.NotifNewIdea, message, ideaID, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
			return
		}
	}

	// 6. --- Commit Transaction ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	// 7. --- Publish & Respond ---
	idea, err := h.getIdeaByID(ideaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load created idea"})
		return
	}
	h.Ideas.Upsert(*idea)

	c.JSON(http.StatusCreated, idea.ToResponse())
}

// DeleteIdea is the handler for DELETE /api/Idea/:id.
// Only the author may withdraw an idea, and only while it is UnderReview
// or Rejected. Approved ideas are immutable.
func (h *Handlers) DeleteIdea(c *gin.Context) {
	actor := rules.Actor{
		UserID: c.GetInt64(middleware.CtxUserID),
		Role:   c.GetString(middleware.CtxUserRole),
	}
	ideaID := c.Param("id")

	// 1. --- Begin Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	// 2. --- Lock & Load the Idea ---
	var idea models.Idea
	query := "SELECT id, user_id, status FROM ideas WHERE id = ? FOR UPDATE"
	err = tx.QueryRow(query, ideaID).Scan(&idea.ID, &idea.UserID, &idea.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load idea"})
		return
	}

	// 3. --- Access Policy ---
	if !rules.CanDelete(&idea, actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You may only delete your own ideas while they are under review or rejected"})
		return
	}

	// 4. --- Delete ---
	// Votes, comments, reviews and notifications cascade via FKs.
	if _, err := tx.Exec("DELETE FROM ideas WHERE id = ?", idea.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete idea"})
		return
	}

	// 5. --- Commit & Publish ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}
	h.Ideas.Remove(idea.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Idea deleted successfully"})
}
