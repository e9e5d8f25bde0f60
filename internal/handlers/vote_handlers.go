package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/brainstorm-app/brainstorm-golang/internal/middleware"
	"github.com/brainstorm-app/brainstorm-golang/internal/models"
	"github.com/brainstorm-app/brainstorm-golang/internal/rules"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

//
// --- Vote Handlers ---
//
// One vote per (idea, user), enforced twice: an explicit check inside the
// transaction (for a clean error message) and the UNIQUE(idea_id, user_id)
// key (for the race where two requests from the same user interleave).
// Votes are single-shot in the normal flow; the remove endpoint exists for
// the client's boundary case only.
//

// Upvote is the handler for POST /api/vote/:ideaId/upvote.
func (h *Handlers) Upvote(c *gin.Context) {
	h.castVote(c, models.Upvote, "")
}

// DownvoteInput is the JSON body for POST /api/vote/:ideaId/downvote.
type DownvoteInput struct {
	VoteType    string `json:"voteType"`
	CommentText string `json:"commentText"`
}

// Downvote is the handler for POST /api/vote/:ideaId/downvote.
// A downvote must be justified: the comment is stored with the
// isDownvoteComment flag and the whole thing is one transaction, so a
// rejected downvote appends neither a vote nor a comment.
func (h *Handlers) Downvote(c *gin.Context) {
	var input DownvoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.castVote(c, models.Downvote, input.CommentText)
}

// castVote shares the vote pipeline between the two endpoints.
func (h *Handlers) castVote(c *gin.Context, voteType, comment string) {
	userID := c.GetInt64(middleware.CtxUserID)
	userName := c.GetString(middleware.CtxUserName)
	ideaIDStr := c.Param("ideaId")

	// 1. --- Validate the Vote ---
	if err := rules.ValidateVote(voteType, comment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A non-empty comment is required when downvoting"})
		return
	}

	// 2. --- Begin Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	// 3. --- Lock & Load the Idea ---
	var idea models.Idea
	err = tx.QueryRow("SELECT id, user_id, title FROM ideas WHERE id = ? FOR UPDATE", ideaIDStr).
		Scan(&idea.ID, &idea.UserID, &idea.Title)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load idea"})
		return
	}

	// 4. --- One Vote per (Idea, User) ---
	// Checked against the vote log, not the counters: counts alone cannot
	// say who voted.
	var alreadyVoted bool
	err = tx.QueryRow("SELECT EXISTS(SELECT 1 FROM votes WHERE idea_id = ? AND user_id = ?)", idea.ID, userID).
		Scan(&alreadyVoted)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing vote"})
		return
	}
	if alreadyVoted {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already voted on this idea"})
		return
	}

	// 5. --- Record the Vote ---
	_, err = tx.Exec("INSERT INTO votes (idea_id, user_id, vote_type) VALUES (?, ?, ?)", idea.ID, userID, voteType)
	if err != nil {
		// The unique key catches the duplicate-vote race the EXISTS check
		// cannot see.
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already voted on this idea"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	// 6. --- Bump the Counter ---
	counter := "upvotes"
	if voteType == models.Downvote {
		counter = "downvotes"
	}
	if _, err := tx.Exec("UPDATE ideas SET "+counter+" = "+counter+" + 1 WHERE id = ?", idea.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vote count"})
		return
	}

	// 7. --- Store the Downvote Justification ---
	if voteType == models.Downvote {
		_, err = tx.Exec(
			"INSERT INTO comments (idea_id, user_id, text, is_downvote_comment, created_date) VALUES (?, ?, ?, 1, ?)",
			idea.ID, userID, comment, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store downvote comment"})
			return
		}

		// Tell the author why their idea was downvoted.
		if idea.UserID != userID {
			message := fmt.Sprintf("%s commented on your idea %q while downvoting it", userName, idea.Title)
			if err := h.AddNotification(tx, idea.UserID, models.NotifNewComment, message, idea.ID, userID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
				return
			}
		}
	}

	// 8. --- Commit & Publish ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}
	h.refreshIdeaInStore(idea.ID)

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s recorded", voteType)})
}

// GetVotesForIdea is the handler for GET /api/vote/:ideaId.
func (h *Handlers) GetVotesForIdea(c *gin.Context) {
	ideaID := c.Param("ideaId")

	rows, err := h.DB.Query("SELECT id, idea_id, user_id, vote_type FROM votes WHERE idea_id = ? ORDER BY id ASC", ideaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.IdeaID, &v.UserID, &v.VoteType); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan vote row"})
			return
		}
		votes = append(votes, v)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating vote rows"})
		return
	}

	c.JSON(http.StatusOK, votes)
}

// RemoveVote is the handler for DELETE /api/vote/:ideaId.
// This is a boundary endpoint the client exposes but the normal flow never
// uses (votes are single-shot). It removes the caller's vote and rolls the
// matching counter back by one.
func (h *Handlers) RemoveVote(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)
	ideaIDStr := c.Param("ideaId")

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var voteID int64
	var voteType string
	err = tx.QueryRow("SELECT id, vote_type FROM votes WHERE idea_id = ? AND user_id = ? FOR UPDATE", ideaIDStr, userID).
		Scan(&voteID, &voteType)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "You have not voted on this idea"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load vote"})
		return
	}

	if _, err := tx.Exec("DELETE FROM votes WHERE id = ?", voteID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove vote"})
		return
	}

	counter := "upvotes"
	if voteType == models.Downvote {
		counter = "downvotes"
	}
	// GREATEST keeps the counter non-negative even if it ever drifted.
	query := fmt.Sprintf("UPDATE ideas SET %s = GREATEST(%s - 1, 0) WHERE id = ?", counter, counter)
	if _, err := tx.Exec(query, ideaIDStr); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vote count"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	if ideaID, err := strconv.ParseInt(ideaIDStr, 10, 64); err == nil {
		h.refreshIdeaInStore(ideaID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote removed"})
}
