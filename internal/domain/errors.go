package domain

import "errors"

// Admission outcomes. These are expected rejections, surfaced to clients
// as structured error broadcasts, never as faults.
var (
	ErrUserNotFound      = errors.New("user not found, login and try again")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrAlreadyVoted      = errors.New("you have already voted for a candidate in this category")
	ErrVotingNotStarted  = errors.New("voting has not started yet")
	ErrVotingEnded       = errors.New("voting has ended for this category")
	ErrCastInFlight      = errors.New("a vote for this category is already being processed")
)
