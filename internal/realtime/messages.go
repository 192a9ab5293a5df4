package realtime

import "encoding/json"

// Wire events, kept byte-compatible with the existing frontend.
const (
	// inbound
	EventGetCandidates = "getCandidates"
	EventVote          = "vote"
	EventLive          = "live"

	// outbound
	EventKey        = "key"
	EventCandidates = "candidates"
	EventDBUser     = "db_user"
	EventSuccess    = "success"
	EventError      = "error"
	EventNoUpdate   = "no_update"
	EventOngoing    = "ongoing"
	EventUpcoming   = "upcoming"
	EventPast       = "past"
)

// Envelope frames every websocket message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// VotePayload is the inbound data of a vote event: base64 ciphertext
// plus the base64 IV used to encrypt it.
type VotePayload struct {
	Payload string `json:"payload"`
	IV      string `json:"iv"`
}

// ErrorMessage is the structured error broadcast on every rejection
// path. Status is always false.
type ErrorMessage struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// NoUpdateMessage is broadcast for a live request against an empty
// catalog.
type NoUpdateMessage struct {
	Status  bool          `json:"status"`
	Data    []interface{} `json:"data"`
	Message string        `json:"message"`
}

func encodeEnvelope(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
