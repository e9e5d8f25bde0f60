package models

// Vote type values stored in the 'votes' table.
const (
	Upvote   = "Upvote"
	Downvote = "Downvote"
)

// Vote is the model for the 'votes' table.
// The table carries a UNIQUE(idea_id, user_id) constraint so a user can
// never hold two votes on the same idea, regardless of direction.
type Vote struct {
	ID       int64  `json:"voteID" db:"id"`
	IdeaID   int64  `json:"ideaID" db:"idea_id"`
	UserID   int64  `json:"userID" db:"user_id"`
	VoteType string `json:"voteType" db:"vote_type"`
}
