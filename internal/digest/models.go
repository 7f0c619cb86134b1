package digest

import (
	"time"
)

// EnvelopeCodeOK is the envelope status code the API uses for success.
const EnvelopeCodeOK = 200

// Digest is the daily news summary as returned by the API.
type Digest struct {
	Date  string   `json:"date"`
	Tip   string   `json:"tip"`
	Cover string   `json:"cover"`
	News  []string `json:"news"`
	Link  string   `json:"link"`
}

// Envelope is the API's top-level response wrapper.
// Data is a pointer so a missing or null payload can be told apart from an empty one.
type Envelope struct {
	Code    int     `json:"code"`
	Message string  `json:"message,omitempty"`
	Data    *Digest `json:"data"`
}

// Snapshot is a cached Digest together with the time it was fetched.
type Snapshot struct {
	Digest    Digest    `json:"data"`
	UpdatedAt time.Time `json:"updatedAt"` // always UTC
}

// clone returns a deep copy so callers never share the news slice with the cache.
func (d Digest) clone() Digest {
	out := d
	if d.News != nil {
		out.News = append([]string(nil), d.News...)
	}
	return out
}

// MessageType classifies an outbound notification for the messaging backend.
type MessageType string

const (
	MessageTypeSite MessageType = "SiteMessage"
)

// Message is a formatted notification ready to be delivered.
type Message struct {
	Type  MessageType `json:"type"`
	Title string      `json:"title"`
	Text  string      `json:"text"`
}
