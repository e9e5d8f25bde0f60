package rules

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/brainstorm-app/brainstorm-golang/internal/models"
)

func idea(status string, userID int64, reviewedBy int64) *models.Idea {
	i := &models.Idea{Status: status, UserID: userID}
	if reviewedBy != 0 {
		i.ReviewedByID = sql.NullInt64{Int64: reviewedBy, Valid: true}
	}
	return i
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusDraft, StatusUnderReview, StatusApproved, StatusRejected} {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "Pending", "approved", "Under Review"} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true, want false", s)
		}
	}
}

func TestCanChangeStatus(t *testing.T) {
	manager := Actor{UserID: 3, Role: models.RoleManager}
	otherManager := Actor{UserID: 9, Role: models.RoleManager}
	employee := Actor{UserID: 7, Role: models.RoleEmployee}
	admin := Actor{UserID: 1, Role: models.RoleAdmin}

	cases := []struct {
		name  string
		idea  *models.Idea
		actor Actor
		want  bool
	}{
		{"any manager takes a pending idea", idea(StatusUnderReview, 7, 0), manager, true},
		{"employee cannot review", idea(StatusUnderReview, 7, 0), employee, false},
		{"admin has no review authority", idea(StatusUnderReview, 7, 0), admin, false},
		{"original reviewer revises approval", idea(StatusApproved, 7, 3), manager, true},
		{"different manager cannot revise", idea(StatusApproved, 7, 3), otherManager, false},
		{"original reviewer revises rejection", idea(StatusRejected, 7, 3), manager, true},
		{"different manager cannot revise rejection", idea(StatusRejected, 7, 3), otherManager, false},
		{"admin cannot revise someone else's decision", idea(StatusApproved, 7, 3), admin, false},
		{"draft is not reviewable", idea(StatusDraft, 7, 0), manager, false},
	}
	for _, c := range cases {
		if got := CanChangeStatus(c.idea, c.actor); got != c.want {
			t.Errorf("%s: CanChangeStatus = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestCanDelete(t *testing.T) {
	owner := Actor{UserID: 7, Role: models.RoleEmployee}
	stranger := Actor{UserID: 8, Role: models.RoleEmployee}
	admin := Actor{UserID: 1, Role: models.RoleAdmin}

	cases := []struct {
		name  string
		idea  *models.Idea
		actor Actor
		want  bool
	}{
		{"owner deletes pending idea", idea(StatusUnderReview, 7, 0), owner, true},
		{"owner deletes rejected idea", idea(StatusRejected, 7, 3), owner, true},
		{"owner cannot delete approved idea", idea(StatusApproved, 7, 3), owner, false},
		{"admin cannot delete approved idea", idea(StatusApproved, 7, 3), admin, false},
		{"stranger cannot delete", idea(StatusUnderReview, 7, 0), stranger, false},
		{"draft is not deletable through this path", idea(StatusDraft, 7, 0), owner, false},
	}
	for _, c := range cases {
		if got := CanDelete(c.idea, c.actor); got != c.want {
			t.Errorf("%s: CanDelete = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestValidateStatusChange(t *testing.T) {
	cases := []struct {
		name    string
		target  string
		comment string
		wantErr error
	}{
		{"approve needs no comment", StatusApproved, "", nil},
		{"back to review needs no comment", StatusUnderReview, "", nil},
		{"reject with reason", StatusRejected, "duplicate of idea 12", nil},
		{"reject without reason", StatusRejected, "", ErrValidation},
		{"reject with whitespace reason", StatusRejected, "   \t", ErrValidation},
		{"unknown status", "Archived", "", ErrValidation},
		{"draft not reachable via endpoint", StatusDraft, "", ErrValidation},
	}
	for _, c := range cases {
		err := ValidateStatusChange(c.target, c.comment)
		if !errors.Is(err, c.wantErr) {
			t.Errorf("%s: ValidateStatusChange = %v, want %v", c.name, err, c.wantErr)
		}
	}
}

func TestAuthorizeStatusChange(t *testing.T) {
	manager := Actor{UserID: 3, Role: models.RoleManager}
	otherManager := Actor{UserID: 9, Role: models.RoleManager}

	// Validation failures are reported before permission is consulted, so
	// a rejected transition without a reason never reads the policy.
	if err := AuthorizeStatusChange(idea(StatusUnderReview, 7, 0), manager, StatusRejected, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("missing rejection reason: got %v, want ErrValidation", err)
	}

	if err := AuthorizeStatusChange(idea(StatusUnderReview, 7, 0), manager, StatusApproved, ""); err != nil {
		t.Errorf("manager approving pending idea: got %v, want nil", err)
	}

	// A different manager may not pull an approved idea back to review.
	if err := AuthorizeStatusChange(idea(StatusApproved, 7, 3), otherManager, StatusUnderReview, ""); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("foreign manager reverting approval: got %v, want ErrPermissionDenied", err)
	}

	// Re-applying the current status is allowed for the original reviewer.
	if err := AuthorizeStatusChange(idea(StatusApproved, 7, 3), manager, StatusApproved, ""); err != nil {
		t.Errorf("reviewer re-applying approval: got %v, want nil", err)
	}
}

func TestValidateVote(t *testing.T) {
	cases := []struct {
		name     string
		voteType string
		comment  string
		wantErr  error
	}{
		{"upvote without comment", models.Upvote, "", nil},
		{"upvote with comment", models.Upvote, "nice", nil},
		{"downvote with comment", models.Downvote, "needs a cost estimate", nil},
		{"downvote without comment", models.Downvote, "", ErrValidation},
		{"downvote with whitespace comment", models.Downvote, " \n ", ErrValidation},
		{"unknown vote type", "Sideways", "x", ErrValidation},
	}
	for _, c := range cases {
		err := ValidateVote(c.voteType, c.comment)
		if !errors.Is(err, c.wantErr) {
			t.Errorf("%s: ValidateVote = %v, want %v", c.name, err, c.wantErr)
		}
	}
}

func TestRecordsDecision(t *testing.T) {
	cases := []struct {
		name    string
		current string
		target  string
		want    bool
	}{
		{"first approval", StatusUnderReview, StatusApproved, true},
		{"first rejection", StatusUnderReview, StatusRejected, true},
		{"flip rejection to approval", StatusRejected, StatusApproved, true},
		{"flip approval to rejection", StatusApproved, StatusRejected, true},
		{"re-applying approval leaves no duplicate", StatusApproved, StatusApproved, false},
		{"re-applying rejection leaves no duplicate", StatusRejected, StatusRejected, false},
		{"revert to review leaves no record", StatusApproved, StatusUnderReview, false},
	}
	for _, c := range cases {
		if got := RecordsDecision(c.current, c.target); got != c.want {
			t.Errorf("%s: RecordsDecision(%q, %q) = %v, want %v", c.name, c.current, c.target, got, c.want)
		}
	}
}

func TestDecisionToStatus(t *testing.T) {
	if s, err := DecisionToStatus(models.DecisionApprove); err != nil || s != StatusApproved {
		t.Errorf("Approve: got (%q, %v)", s, err)
	}
	if s, err := DecisionToStatus(models.DecisionReject); err != nil || s != StatusRejected {
		t.Errorf("Reject: got (%q, %v)", s, err)
	}
	if _, err := DecisionToStatus("Maybe"); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown decision: got %v, want ErrValidation", err)
	}
}
