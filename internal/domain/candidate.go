package domain

import "time"

// Candidate is one votable entry within one category, carrying its own
// admission window, tally and voter list.
type Candidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"candidateName"`
	Party     string    `json:"candidateParty"`
	Picture   string    `json:"candidatePicture,omitempty"`
	Category  string    `json:"voteCategory"`
	Voters    []Voter   `json:"voters"`
	VoteCount int       `json:"voteCount"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Voter is one entry in a candidate's voter list.
type Voter struct {
	VoterID      string `json:"voterId"`
	VoterEmail   string `json:"voterEmail"`
	VoterPicture string `json:"voterPicture"`
}

// HasVoter reports whether userID already appears in the voter list.
func (c *Candidate) HasVoter(userID string) bool {
	for _, v := range c.Voters {
		if v.VoterID == userID {
			return true
		}
	}
	return false
}

// CreateCandidateRequest is the admin request to add a candidate.
type CreateCandidateRequest struct {
	Name     string    `json:"name"`
	Party    string    `json:"party"`
	Picture  string    `json:"picture"`
	Category string    `json:"category"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// LiveStatus partitions the catalog by the admission window relative to
// a fixed instant. Every candidate lands in exactly one bucket.
type LiveStatus struct {
	Ongoing  []Candidate `json:"ongoing"`
	Upcoming []Candidate `json:"upcoming"`
	Past     []Candidate `json:"past"`
}
