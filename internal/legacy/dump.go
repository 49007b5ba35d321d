// Package legacy loads a browser local-storage dump of the old portal into
// the repositories.
package legacy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Storage keys written by the old portal.
const (
	KeyCouples       = "ecc_couples_db"
	KeyChat          = "ecc_chat_messages"
	KeyRegions       = "ecc_apostolic_regions"
	KeySongs         = "ecc_songs_db"
	KeyUsers         = "ecc_users_accounts"
	KeyEvents        = "ecc_events_agenda"
	KeyNotifications = "ecc_notifications_db"
)

// Dump is the decoded content of every known key. Unknown keys such as the
// session and theme entries are ignored.
type Dump struct {
	Users         []User
	Couples       []Couple
	Events        []Event
	Messages      []ChatMessage
	Notifications []Notification
	Regions       []Region
	Songs         []Song
}

// Parse reads a JSON object keyed by storage key. Each value is either the
// stored array itself or the raw string local storage held.
func Parse(r io.Reader) (*Dump, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dump: %w", err)
	}

	d := &Dump{}
	targets := map[string]any{
		KeyUsers:         &d.Users,
		KeyCouples:       &d.Couples,
		KeyEvents:        &d.Events,
		KeyChat:          &d.Messages,
		KeyNotifications: &d.Notifications,
		KeyRegions:       &d.Regions,
		KeySongs:         &d.Songs,
	}
	for key, dst := range targets {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if err := decodeValue(value, dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return d, nil
}

func decodeValue(value json.RawMessage, dst any) error {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return nil
	}
	if value[0] == '"' {
		var inner string
		if err := json.Unmarshal(value, &inner); err != nil {
			return err
		}
		if inner == "" || inner == "null" {
			return nil
		}
		value = json.RawMessage(inner)
	}
	return json.Unmarshal(value, dst)
}
