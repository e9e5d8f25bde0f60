package models

import (
	"database/sql"
	"time"
)

// Notification types the client knows how to render.
const (
	NotifNewIdea        = "NewIdea"
	NotifReviewDecision = "ReviewDecision"
	NotifNewComment     = "NewComment"
)

// Notification read status
const (
	NotifUnread = "Unread"
	NotifRead   = "Read"
)

// Notification is the model for the 'notifications' table.
// IDs are GUID strings (the client treats them as opaque).
type Notification struct {
	ID          string         `json:"notificationId" db:"id"`
	UserID      int64          `json:"userId" db:"user_id"`
	Type        string         `json:"type" db:"type"`
	Message     string         `json:"message" db:"message"`
	Status      string         `json:"status" db:"status"`
	IdeaID      sql.NullInt64  `json:"-" db:"idea_id"`
	ReviewerID  sql.NullInt64  `json:"-" db:"reviewer_id"`
	CreatedDate time.Time      `json:"createdDate" db:"created_date"`
	IdeaTitle   sql.NullString `json:"-" db:"-"`

	// Flattened nullable fields for the JSON response.
	IdeaIDOut       *int64  `json:"ideaId,omitempty" db:"-"`
	ReviewerIDOut   *int64  `json:"reviewerId,omitempty" db:"-"`
	IdeaTitleOut    *string `json:"ideaTitle,omitempty" db:"-"`
	ReviewerNameOut *string `json:"reviewerName,omitempty" db:"-"`
}

// Flatten copies the sql.Null* columns into the *Out JSON fields.
func (n *Notification) Flatten(reviewerName sql.NullString) {
	if n.IdeaID.Valid {
		n.IdeaIDOut = &n.IdeaID.Int64
	}
	if n.ReviewerID.Valid {
		n.ReviewerIDOut = &n.ReviewerID.Int64
	}
	if n.IdeaTitle.Valid {
		n.IdeaTitleOut = &n.IdeaTitle.String
	}
	if reviewerName.Valid {
		n.ReviewerNameOut = &reviewerName.String
	}
}
