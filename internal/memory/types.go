package memory

import "time"

// Turn is one remembered conversation exchange entry.
type Turn struct {
	Role string    `json:"role"` // "user" or "assistant"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Snapshot is the durable cross-session memory state. Loop invocations read
// a committed copy once at start; all mutation goes through the Manager.
type Snapshot struct {
	Version         int64               `json:"version"`
	Summary         string              `json:"summary"`
	RecentMessages  []Turn              `json:"recent_messages"`
	ActiveProjectID string              `json:"active_project_id,omitempty"`
	Learnings       map[string][]string `json:"learnings"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// Clone returns a deep copy so callers can never alias the committed state.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Version:         s.Version,
		Summary:         s.Summary,
		ActiveProjectID: s.ActiveProjectID,
		UpdatedAt:       s.UpdatedAt,
		Learnings:       make(map[string][]string, len(s.Learnings)),
	}
	out.RecentMessages = append(out.RecentMessages, s.RecentMessages...)
	for k, v := range s.Learnings {
		out.Learnings[k] = append([]string(nil), v...)
	}
	return out
}

// Update is a partial checkpoint. Nil fields are left untouched.
type Update struct {
	Summary         *string
	AppendTurns     []Turn
	ActiveProjectID *string
}
