package models

import (
	"database/sql"
	"time"
)

// Idea is the model for the 'ideas' table.
type Idea struct {
	ID          int64  `json:"ideaId" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	CategoryID  int64  `json:"categoryId" db:"category_id"`
	UserID      int64  `json:"userId" db:"user_id"`
	Status      string `json:"status" db:"status"`
	Upvotes     int    `json:"upvotes" db:"upvotes"`
	Downvotes   int    `json:"downvotes" db:"downvotes"`

	// Set once, on the first transition away from UnderReview.
	ReviewedByID sql.NullInt64 `json:"-" db:"reviewed_by_id"`

	// Present only after a rejection (the mandatory reason).
	ReviewComment sql.NullString `json:"-" db:"review_comment"`

	SubmittedDate time.Time `json:"submittedDate" db:"submitted_date"`

	// These fields are not in the 'ideas' table, but are populated by
	// JOINs for the list views the client renders.
	SubmittedByUserName string `json:"submittedByUserName,omitempty" db:"-"`
	CategoryName        string `json:"categoryName,omitempty" db:"-"`
	ReviewedByName      string `json:"reviewedByName,omitempty" db:"-"`
}

// IdeaResponse mirrors the nullable columns into the JSON shape the
// client expects (absent while the idea is still unreviewed).
type IdeaResponse struct {
	Idea
	ReviewedByID  *int64  `json:"reviewedById,omitempty"`
	ReviewComment *string `json:"reviewComment,omitempty"`
}

// ToResponse flattens the sql.Null* fields for JSON encoding.
func (i *Idea) ToResponse() *IdeaResponse {
	resp := &IdeaResponse{Idea: *i}
	if i.ReviewedByID.Valid {
		resp.ReviewedByID = &i.ReviewedByID.Int64
	}
	if i.ReviewComment.Valid {
		resp.ReviewComment = &i.ReviewComment.String
	}
	return resp
}
