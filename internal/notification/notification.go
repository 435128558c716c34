// Package notification defines the notification feed record.
package notification

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// ID is a notification identifier. The feed endpoint serializes ids as
// strings, but older records arrive as bare JSON numbers; both decode into
// the same string form.
type ID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Notification is one user-facing alert from the feed endpoint.
//
// IsRead is a pointer because the field may be absent on the wire; an
// absent read-state means unread.
type Notification struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title,omitempty"`
	Category  string    `json:"category,omitempty"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    *bool     `json:"is_read,omitempty"`
}

// Unread reports whether the notification counts as unread. Absent
// read-state is unread; only an explicit true marks it read.
func (n Notification) Unread() bool {
	return n.IsRead == nil || !*n.IsRead
}

// SortNewestFirst orders notifications by creation time descending,
// in place. The feed endpoint does not guarantee ordering.
func SortNewestFirst(ns []Notification) {
	sort.SliceStable(ns, func(i, j int) bool {
		return ns[i].CreatedAt.After(ns[j].CreatedAt)
	})
}

// CountUnread returns the number of unread notifications.
func CountUnread(ns []Notification) int {
	count := 0
	for _, n := range ns {
		if n.Unread() {
			count++
		}
	}
	return count
}
