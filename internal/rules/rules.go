// Package rules holds the idea lifecycle business rules: which status
// transitions are legal, who may perform them, and what a vote must carry.
// Handlers call these checks before touching the database so a failed
// request never leaves a partial write behind.
package rules

import (
	"errors"
	"strings"

	"github.com/brainstorm-app/brainstorm-golang/internal/models"
)

// Idea status values. Every idea is in exactly one of these at all times.
const (
	StatusDraft       = "Draft"
	StatusUnderReview = "UnderReview"
	StatusApproved    = "Approved"
	StatusRejected    = "Rejected"
)

// Sentinel errors. Handlers map these onto HTTP statuses
// (403, 400 and 409 respectively).
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
	ErrAlreadyVoted     = errors.New("user has already voted on this idea")
)

// Actor is the pre-validated identity of the caller, taken from the JWT
// claims at the boundary. The rules never parse tokens themselves.
type Actor struct {
	UserID int64
	Role   string
	Name   string
}

// validStatuses are the targets a status-change request may name.
// Draft is recognized but never a transition target; submission always
// lands ideas in UnderReview.
var validStatuses = []string{StatusUnderReview, StatusApproved, StatusRejected}

// IsValidStatus reports whether s is a known idea status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ContainsStatus checks a target status against a transition whitelist.
func ContainsStatus(valid []string, status string) bool {
	for _, v := range valid {
		if v == status {
			return true
		}
	}
	return false
}

// CanChangeStatus is the access policy for status transitions:
//   - While an idea is UnderReview, any manager may take it.
//   - Once Approved or Rejected, only the original reviewer may revise
//     their own decision.
//
// Admins get no special bypass here; review authority belongs to managers.
func CanChangeStatus(idea *models.Idea, actor Actor) bool {
	switch idea.Status {
	case StatusUnderReview:
		return actor.Role == models.RoleManager
	case StatusApproved, StatusRejected:
		return actor.Role == models.RoleManager &&
			idea.ReviewedByID.Valid && idea.ReviewedByID.Int64 == actor.UserID
	}
	return false
}

// CanDelete allows an idea's author to withdraw it, but only while it is
// UnderReview or Rejected. Approved ideas are immutable for every actor.
func CanDelete(idea *models.Idea, actor Actor) bool {
	if idea.Status == StatusApproved {
		return false
	}
	if idea.Status != StatusUnderReview && idea.Status != StatusRejected {
		return false
	}
	return idea.UserID == actor.UserID
}

// ValidateStatusChange checks the request half of a transition: the target
// must be a real status reachable through the endpoint, and a rejection
// must carry a non-empty reason.
func ValidateStatusChange(targetStatus, reviewComment string) error {
	if !ContainsStatus(validStatuses, targetStatus) {
		return ErrValidation
	}
	if targetStatus == StatusRejected && strings.TrimSpace(reviewComment) == "" {
		return ErrValidation
	}
	return nil
}

// AuthorizeStatusChange combines the policy and request checks for a
// transition. Re-applying the current status is accepted (no-op
// state-wise; the reviewer stamp still follows the acting user).
func AuthorizeStatusChange(idea *models.Idea, actor Actor, targetStatus, reviewComment string) error {
	if err := ValidateStatusChange(targetStatus, reviewComment); err != nil {
		return err
	}
	if !CanChangeStatus(idea, actor) {
		return ErrPermissionDenied
	}
	return nil
}

// ValidateVote enforces the vote request rules: the type must be Upvote or
// Downvote, and a downvote must be justified with a real comment
// (whitespace-only does not count).
func ValidateVote(voteType, comment string) error {
	switch voteType {
	case models.Upvote:
		return nil
	case models.Downvote:
		if strings.TrimSpace(comment) == "" {
			return ErrValidation
		}
		return nil
	}
	return ErrValidation
}

// RecordsDecision reports whether a transition should append to the review
// log. Approve and Reject land a record; reverting to UnderReview does not,
// and neither does re-applying the idea's current status, which is a no-op
// state-wise and must not duplicate log entries.
func RecordsDecision(currentStatus, targetStatus string) bool {
	if targetStatus != StatusApproved && targetStatus != StatusRejected {
		return false
	}
	return currentStatus != targetStatus
}

// DecisionToStatus maps a review decision onto the status it produces.
func DecisionToStatus(decision string) (string, error) {
	switch decision {
	case models.DecisionApprove:
		return StatusApproved, nil
	case models.DecisionReject:
		return StatusRejected, nil
	}
	return "", ErrValidation
}
