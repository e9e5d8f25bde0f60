package models

import "time"

// Comment is the model for the 'comments' table.
// IsDownvoteComment distinguishes the mandatory justification stored
// alongside a downvote from ordinary discussion comments.
type Comment struct {
	ID                int64     `json:"commentID" db:"id"`
	IdeaID            int64     `json:"ideaID" db:"idea_id"`
	UserID            int64     `json:"userID" db:"user_id"`
	Text              string    `json:"text" db:"text"`
	IsDownvoteComment bool      `json:"isDownvoteComment" db:"is_downvote_comment"`
	CreatedDate       time.Time `json:"createdDate" db:"created_date"`

	// Populated by a JOIN with 'users'.
	UserName string `json:"userName,omitempty" db:"-"`
}
