package realtime

import (
	"context"
	"encoding/json"
	"errors"

	"votely-be/internal/domain"
	"votely-be/internal/service"
	"votely-be/pkg/logger"
)

// Rejection messages broadcast to clients. Kept identical to the
// existing frontend's expectations.
const (
	msgMissingUserID     = "User Id not found, login and try again!"
	msgUserNotFound      = "User not found login and try again!"
	msgNoCandidates      = "No available candidates yet, check back later!"
	msgCandidateNotFound = "Candidate not found!"
	msgAlreadyVoted      = "You have already voted for a candidate in this category!"
	msgNotStarted        = "Voting has not started yet!"
	msgEnded             = "Voting has ended for this category!"
	msgCastInFlight      = "Your vote is already being processed!"
	msgBadPayload        = "Could not read your vote, please try again!"
	msgCastFailed        = "An error occurred while casting vote!"
	msgLiveFailed        = "An error occurred fetching live updates"
	msgNoVotesYet        = "No vote created yet!"
)

// Dispatcher decodes inbound session events and runs them against the
// services, publishing every outcome through the Publisher. It holds no
// per-connection state beyond the key passed per call, so one instance
// serves all sessions.
type Dispatcher struct {
	users      *service.UserService
	candidates *service.CandidateService
	voting     *service.VotingService
	live       *service.LiveService
	pub        Publisher
	log        *logger.Logger
}

func NewDispatcher(
	users *service.UserService,
	candidates *service.CandidateService,
	voting *service.VotingService,
	live *service.LiveService,
	pub Publisher,
	log *logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		users:      users,
		candidates: candidates,
		voting:     voting,
		live:       live,
		pub:        pub,
		log:        log,
	}
}

// Dispatch handles one inbound message. key is the AES key issued to
// the session the message arrived on. Unknown events are logged and
// dropped; they never fail the connection.
func (d *Dispatcher) Dispatch(ctx context.Context, key string, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.log.WithError(err).Debug("unparseable inbound message")
		d.publishError(msgBadPayload)
		return
	}

	switch env.Event {
	case EventGetCandidates:
		var userID string
		if len(env.Data) > 0 {
			_ = json.Unmarshal(env.Data, &userID)
		}
		d.handleGetCandidates(ctx, userID)
	case EventVote:
		var payload VotePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			d.publishError(msgBadPayload)
			return
		}
		d.handleVote(ctx, key, payload)
	case EventLive:
		d.handleLive(ctx)
	default:
		d.log.WithField("event", env.Event).Debug("unknown event")
	}
}

func (d *Dispatcher) handleGetCandidates(ctx context.Context, userID string) {
	if userID == "" {
		d.publishError(msgMissingUserID)
		return
	}

	user, err := d.users.GetUser(ctx, userID)
	if err != nil {
		d.log.WithError(err).Error("failed to resolve user for catalog request")
		d.publishError(msgUserNotFound)
		return
	}
	if user == nil {
		d.publishError(msgUserNotFound)
		return
	}

	candidates, err := d.candidates.List(ctx)
	if err != nil {
		d.log.WithError(err).Error("failed to fetch catalog")
		d.publishError(msgNoCandidates)
		return
	}
	if len(candidates) == 0 {
		d.publishError(msgNoCandidates)
		return
	}

	d.pub.Broadcast(EventCandidates, candidates)
	d.pub.Broadcast(EventDBUser, user)
}

func (d *Dispatcher) handleVote(ctx context.Context, key string, payload VotePayload) {
	plaintext, err := Decrypt(payload.Payload, key, payload.IV)
	if err != nil {
		// Fail closed: one generic message for every decryption
		// failure, no cipher detail.
		d.log.Debug("vote payload decryption failed")
		d.publishError(msgBadPayload)
		return
	}

	var intent domain.VoteIntent
	if err := json.Unmarshal(plaintext, &intent); err != nil {
		d.publishError(msgBadPayload)
		return
	}

	receipt, err := d.voting.CastVote(ctx, &intent)
	if err != nil {
		d.publishError(rejectionMessage(err))
		return
	}

	d.pub.Broadcast(EventSuccess, receipt)
}

func (d *Dispatcher) handleLive(ctx context.Context) {
	status, err := d.live.Snapshot(ctx)
	if err != nil {
		d.publishError(msgLiveFailed)
		return
	}

	if len(status.Ongoing) == 0 && len(status.Upcoming) == 0 && len(status.Past) == 0 {
		d.pub.Broadcast(EventNoUpdate, NoUpdateMessage{
			Status:  true,
			Data:    []interface{}{},
			Message: msgNoVotesYet,
		})
		return
	}

	d.pub.Broadcast(EventOngoing, status.Ongoing)
	d.pub.Broadcast(EventUpcoming, status.Upcoming)
	d.pub.Broadcast(EventPast, status.Past)
}

func (d *Dispatcher) publishError(message string) {
	d.pub.Broadcast(EventError, ErrorMessage{Status: false, Message: message})
}

// rejectionMessage maps coordinator errors to the stable client-facing
// messages. Store failures collapse into a generic retry message.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return msgUserNotFound
	case errors.Is(err, domain.ErrCandidateNotFound):
		return msgCandidateNotFound
	case errors.Is(err, domain.ErrAlreadyVoted):
		return msgAlreadyVoted
	case errors.Is(err, domain.ErrVotingNotStarted):
		return msgNotStarted
	case errors.Is(err, domain.ErrVotingEnded):
		return msgEnded
	case errors.Is(err, domain.ErrCastInFlight):
		return msgCastInFlight
	default:
		return msgCastFailed
	}
}
