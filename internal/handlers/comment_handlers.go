package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/brainstorm-app/brainstorm-golang/internal/middleware"
	"github.com/brainstorm-app/brainstorm-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Comment Handlers ---
//

// queryComments returns the discussion thread for an idea, oldest first.
func (h *Handlers) queryComments(ideaID int64) ([]models.Comment, error) {
	query := `
		SELECT c.id, c.idea_id, c.user_id, c.text, c.is_downvote_comment, c.created_date,
		       u.name AS user_name
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.idea_id = ?
		ORDER BY c.created_date ASC, c.id ASC`

	rows, err := h.DB.Query(query, ideaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.IdeaID, &cm.UserID, &cm.Text, &cm.IsDownvoteComment, &cm.CreatedDate, &cm.UserName); err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

// GetCommentsForIdea is the handler for GET /api/comment/:ideaId.
func (h *Handlers) GetCommentsForIdea(c *gin.Context) {
	ideaID, err := strconv.ParseInt(c.Param("ideaId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid idea id"})
		return
	}

	comments, err := h.queryComments(ideaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// AddCommentInput is the JSON body for POST /api/comment/:ideaId.
type AddCommentInput struct {
	Text string `json:"text" binding:"required"`
}

// AddComment is the handler for POST /api/comment/:ideaId.
// Ordinary discussion comments only; downvote justifications are written
// by the vote pipeline and carry the isDownvoteComment flag.
func (h *Handlers) AddComment(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)
	userName := c.GetString(middleware.CtxUserName)
	ideaIDStr := c.Param("ideaId")

	var input AddCommentInput
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

	now := time.Now()
	result, err := tx.Exec(
		"INSERT INTO comments (idea_id, user_id, text, is_downvote_comment, created_date) VALUES (?, ?, ?, 0, ?)",
		idea.ID, userID, input.Text, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}
	commentID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read new comment id"})
		return
	}

	if idea.UserID != userID {
		message := fmt.Sprintf("%s commented on your idea %q", userName, idea.Title)
		if err := h.AddNotification(tx, idea.UserID, models.NotifNewComment, message, idea.ID, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, models.Comment{
		ID:          commentID,
		IdeaID:      idea.ID,
		UserID:      userID,
		Text:        input.Text,
		CreatedDate: now,
		UserName:    userName,
	})
}

// UpdateCommentInput is the JSON body for PUT /api/comment/:id.
type UpdateCommentInput struct {
	Text string `json:"text" binding:"required"`
}

// UpdateComment is the handler for PUT /api/comment/:id.
// Authors may edit their own discussion comments. Downvote justifications
// are locked: editing one could hollow out the mandatory-comment rule.
func (h *Handlers) UpdateComment(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)
	commentID := c.Param("id")

	var input UpdateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(
		"UPDATE comments SET text = ? WHERE id = ? AND user_id = ? AND is_downvote_comment = 0",
		input.Text, commentID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check affected rows"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found, not yours, or not editable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment updated"})
}

// DeleteComment is the handler for DELETE /api/comment/:id.
// Same ownership rule as editing, and downvote justifications stay put.
func (h *Handlers) DeleteComment(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)
	commentID := c.Param("id")

	result, err := h.DB.Exec(
		"DELETE FROM comments WHERE id = ? AND user_id = ? AND is_downvote_comment = 0",
		commentID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check affected rows"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found, not yours, or not deletable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
