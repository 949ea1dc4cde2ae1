package storage

import (
	"time"
)

// Record is one enrolled password verifier. Salt and Verifier are not
// secret on their own but are only useful together with the password.
type Record struct {
	Name       string    `json:"name"`
	Digest     string    `json:"digest"` // fold algorithm of the chain the verifier was derived from
	KDF        string    `json:"kdf"`
	Salt       []byte    `json:"salt"`
	Iterations uint32    `json:"iterations"`
	MemoryKiB  uint32    `json:"memoryKiB,omitempty"`
	Threads    uint8     `json:"threads,omitempty"`
	Verifier   []byte    `json:"verifier"` // sealed check string
	Created    time.Time `json:"created"`
	Modified   time.Time `json:"modified"`
}

// NewRecord creates a record stamped with the current time
func NewRecord(name string) *Record {
	now := time.Now()
	return &Record{
		Name:     name,
		Created:  now,
		Modified: now,
	}
}

// Touch updates the modification time
func (r *Record) Touch() {
	r.Modified = time.Now()
}
