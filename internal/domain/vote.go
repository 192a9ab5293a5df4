package domain

import "time"

// VoteIntent is the decrypted plaintext of a vote submission.
type VoteIntent struct {
	UserID      string `json:"userId"`
	UserEmail   string `json:"userEmail"`
	Category    string `json:"category"`
	CandidateID string `json:"candidateId"`
}

// VoteReceipt confirms a successful cast. It is broadcast to every
// connected session, not returned privately to the caller.
type VoteReceipt struct {
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Candidate string    `json:"candidate"`
	VoteCount int       `json:"vote"`
	CastAt    time.Time `json:"castAt"`
}
