package service

import (
	"time"

	"votely-be/internal/domain"
)

// Decision is the outcome of admitting a single vote attempt.
type Decision int

const (
	Admit Decision = iota
	RejectUnknownUser
	RejectUnknownCandidate
	RejectAlreadyVoted
	RejectNotStarted
	RejectEnded
)

// String returns the decision name, mostly for logs.
func (d Decision) String() string {
	switch d {
	case Admit:
		return "admit"
	case RejectUnknownUser:
		return "unknown_user"
	case RejectUnknownCandidate:
		return "unknown_candidate"
	case RejectAlreadyVoted:
		return "already_voted"
	case RejectNotStarted:
		return "not_started"
	case RejectEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Err maps a rejection to its domain error. Admit maps to nil.
func (d Decision) Err() error {
	switch d {
	case Admit:
		return nil
	case RejectUnknownUser:
		return domain.ErrUserNotFound
	case RejectUnknownCandidate:
		return domain.ErrCandidateNotFound
	case RejectAlreadyVoted:
		return domain.ErrAlreadyVoted
	case RejectNotStarted:
		return domain.ErrVotingNotStarted
	case RejectEnded:
		return domain.ErrVotingEnded
	default:
		return domain.ErrCandidateNotFound
	}
}

// CheckAdmission decides whether one vote attempt is allowed. It is a
// pure function over data already fetched from the stores.
//
// Rules are evaluated in order, first match wins. Existence failures
// come before temporal ones so a malformed request never learns whether
// a window is open. The already-voted rule is per category, not per
// candidate: the user's history and the voter lists of every candidate
// sharing the target's category are both scanned.
func CheckAdmission(now time.Time, userID string, user *domain.User, target *domain.Candidate, categoryMates []domain.Candidate) Decision {
	if user == nil {
		return RejectUnknownUser
	}
	if target == nil {
		return RejectUnknownCandidate
	}
	if user.HasVotedInCategory(target.Category) {
		return RejectAlreadyVoted
	}
	for i := range categoryMates {
		if categoryMates[i].HasVoter(userID) {
			return RejectAlreadyVoted
		}
	}
	if now.Before(target.StartDate) {
		return RejectNotStarted
	}
	if now.After(target.EndDate) {
		return RejectEnded
	}
	return Admit
}
