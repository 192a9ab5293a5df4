// Command wsclient is a manual smoke client for the realtime endpoint.
// It connects, waits for the session key, then runs one of the inbound
// events against a running server:
//
//	go run ./cmd/wsclient -url ws://localhost:8002/ws -event live
//	go run ./cmd/wsclient -event getCandidates -user <user-id>
//	go run ./cmd/wsclient -event vote -user <user-id> -candidate <candidate-id> -category president
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"votely-be/internal/domain"
	"votely-be/internal/realtime"

	"github.com/gorilla/websocket"
)

func main() {
	var (
		url       = flag.String("url", "ws://localhost:8002/ws", "websocket endpoint")
		event     = flag.String("event", "live", "event to send: getCandidates, vote or live")
		userID    = flag.String("user", "", "user id")
		email     = flag.String("email", "", "user email")
		candidate = flag.String("candidate", "", "candidate id (vote only)")
		category  = flag.String("category", "", "vote category (vote only)")
		wait      = flag.Duration("wait", 5*time.Second, "how long to listen for responses")
	)
	flag.Parse()

	if err := run(*url, *event, *userID, *email, *candidate, *category, *wait); err != nil {
		fmt.Fprintf(os.Stderr, "wsclient: %v\n", err)
		os.Exit(1)
	}
}

func run(url, event, userID, email, candidateID, category string, wait time.Duration) error {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	key, err := awaitKey(conn)
	if err != nil {
		return err
	}
	fmt.Println("session key received")

	msg, err := buildMessage(event, key, userID, email, candidateID, category)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}

	deadline := time.Now().Add(wait)
	_ = conn.SetReadDeadline(deadline)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return nil // deadline reached, done listening
		}
		fmt.Println(string(raw))
	}
}

func awaitKey(conn *websocket.Conn) (string, error) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("waiting for session key: %w", err)
	}

	var env realtime.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("decode key envelope: %w", err)
	}
	if env.Event != realtime.EventKey {
		return "", fmt.Errorf("expected %s event first, got %s", realtime.EventKey, env.Event)
	}

	var key string
	if err := json.Unmarshal(env.Data, &key); err != nil {
		return "", fmt.Errorf("decode session key: %w", err)
	}
	return key, nil
}

func buildMessage(event, key, userID, email, candidateID, category string) ([]byte, error) {
	switch event {
	case realtime.EventLive:
		return json.Marshal(realtime.Envelope{Event: realtime.EventLive})

	case realtime.EventGetCandidates:
		if userID == "" {
			return nil, fmt.Errorf("getCandidates requires -user")
		}
		data, _ := json.Marshal(userID)
		return json.Marshal(realtime.Envelope{Event: realtime.EventGetCandidates, Data: data})

	case realtime.EventVote:
		if userID == "" || candidateID == "" || category == "" {
			return nil, fmt.Errorf("vote requires -user, -candidate and -category")
		}
		plaintext, err := json.Marshal(domain.VoteIntent{
			UserID:      userID,
			UserEmail:   email,
			Category:    category,
			CandidateID: candidateID,
		})
		if err != nil {
			return nil, err
		}
		iv, ciphertext, err := realtime.Encrypt(plaintext, key)
		if err != nil {
			return nil, fmt.Errorf("encrypt vote payload: %w", err)
		}
		data, err := json.Marshal(realtime.VotePayload{Payload: ciphertext, IV: iv})
		if err != nil {
			return nil, err
		}
		return json.Marshal(realtime.Envelope{Event: realtime.EventVote, Data: data})

	default:
		return nil, fmt.Errorf("unknown event %q", event)
	}
}
