package models

import "time"

// Review decisions
const (
	DecisionApprove = "Approve"
	DecisionReject  = "Reject"
)

// Review is the model for the 'reviews' table. Rows are append-only: the
// backend inserts one per decision and never updates or deletes them.
type Review struct {
	ID         int64     `json:"reviewID" db:"id"`
	IdeaID     int64     `json:"ideaID" db:"idea_id"`
	ReviewerID int64     `json:"reviewerID" db:"reviewer_id"`
	Feedback   string    `json:"feedback" db:"feedback"`
	Decision   string    `json:"decision" db:"decision"`
	ReviewDate time.Time `json:"reviewDate" db:"review_date"`

	// Populated by a JOIN with 'users' for the client's review history view.
	ReviewerName string `json:"reviewerName,omitempty" db:"-"`
}
