package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/brainstorm-app/brainstorm-golang/internal/middleware"
	"github.com/brainstorm-app/brainstorm-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//
// --- Notification Handlers ---
//

// AddNotification is an internal helper to create new notifications.
// It's not a handler itself but is called by other handlers (idea
// submission, review decisions, new comments).
// NOTE: This function must be called from within a database transaction
// (tx) so a failed request never leaves a stray notification behind.
// relatedUserID is the user who triggered the event (submitter, reviewer
// or commenter); pass 0 when there is none.
func (h *Handlers) AddNotification(tx *sql.Tx, userID int64, notifType, message string, ideaID, relatedUserID int64) error {
	var nullIdea, nullRelated sql.NullInt64
	if ideaID != 0 {
		nullIdea = sql.NullInt64{Int64: ideaID, Valid: true}
	}
	if relatedUserID != 0 {
		nullRelated = sql.NullInt64{Int64: relatedUserID, Valid: true}
	}

	query := `
		INSERT INTO notifications
		(id, user_id, type, message, status, idea_id, reviewer_id, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := tx.Exec(query, uuid.NewString(), userID, notifType, message, models.NotifUnread, nullIdea, nullRelated, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}

	return nil
}

// GetMyNotifications is the handler for GET /api/Notification.
// The client polls this every 10 seconds; each poll is an independent
// request, so we keep it a single cheap query. Unread first, then newest.
func (h *Handlers) GetMyNotifications(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)

	query := `
		SELECT n.id, n.user_id, n.type, n.message, n.status, n.idea_id, n.reviewer_id, n.created_date,
		       i.title AS idea_title,
		       u.name AS reviewer_name
		FROM notifications n
		LEFT JOIN ideas i ON n.idea_id = i.id
		LEFT JOIN users u ON n.reviewer_id = u.id
		WHERE n.user_id = ?
		ORDER BY n.status DESC, n.created_date DESC
		LIMIT 50` // Limit to 50 to avoid performance issues

	rows, err := h.DB.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		var notif models.Notification
		var reviewerName sql.NullString
		if err := rows.Scan(
			&notif.ID,
			&notif.UserID,
			&notif.Type,
			&notif.Message,
			&notif.Status,
			&notif.IdeaID,
			&notif.ReviewerID,
			&notif.CreatedDate,
			&notif.IdeaTitle,
			&reviewerName,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan notification row"})
			return
		}
		notif.Flatten(reviewerName)
		notifications = append(notifications, &notif)
	}

	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating notification rows"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationAsRead is the handler for PUT /api/Notification/:id/read.
func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)
	notificationID := c.Param("id")

	// We update the row *only if* it belongs to the logged-in user, so
	// nobody can mark another user's notifications as read.
	query := `
		UPDATE notifications
		SET status = ?
		WHERE id = ? AND user_id = ?`

	result, err := h.DB.Exec(query, models.NotifRead, notificationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check affected rows"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found or you do not have permission to update it"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsAsRead is the handler for PUT /api/Notification/read-all.
func (h *Handlers) MarkAllNotificationsAsRead(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)

	_, err := h.DB.Exec("UPDATE notifications SET status = ? WHERE user_id = ? AND status = ?",
		models.NotifRead, userID, models.NotifUnread)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// GetUnreadCount is the handler for GET /api/Notification/unread-count.
func (h *Handlers) GetUnreadCount(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)

	var count int
	err := h.DB.QueryRow("SELECT COUNT(*) FROM notifications WHERE user_id = ? AND status = ?",
		userID, models.NotifUnread).Scan(&count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}
