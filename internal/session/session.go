package session

import (
	"crypto/subtle"
	"encoding/json"

	"github.com/ikkim/storefront-account/pkg/util"
)

const (
	flashKey = "flash"
	csrfKey  = "csrf_token"
)

// FlashKind selects how a flash message is presented.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "danger"
	FlashInfo    FlashKind = "info"
	FlashWarning FlashKind = "warning"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Session is one server-side session document. Values are kept as raw
// JSON so keys written by other applications survive a round trip.
type Session struct {
	ID       string
	values   map[string]json.RawMessage
	identity Identity
	isNew    bool
	dirty    bool
}

func newSession(id string) *Session {
	return &Session{
		ID:     id,
		values: map[string]json.RawMessage{},
		isNew:  true,
	}
}

func loadSession(id string, data []byte) (*Session, error) {
	values := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, err
		}
	}
	if values == nil {
		values = map[string]json.RawMessage{}
	}

	s := &Session{ID: id, values: values}
	identity, changed := normalizeIdentity(s.values)
	s.identity = identity
	s.dirty = changed
	return s, nil
}

func (s *Session) encode() ([]byte, error) {
	return json.Marshal(s.values)
}

// Identity returns the normalized identity; zero when anonymous.
func (s *Session) Identity() Identity {
	return s.identity
}

// SetIdentity records a signed-in user in the structured shape.
func (s *Session) SetIdentity(identity Identity) {
	encoded, err := json.Marshal(identity)
	if err != nil {
		return
	}
	s.values[userKey] = encoded
	for _, key := range flatIdentityKeys {
		delete(s.values, key)
	}
	s.identity = identity
	s.dirty = true
}

// UpdateName refreshes the display name mirror after a profile edit.
func (s *Session) UpdateName(firstName, lastName string) {
	if !s.identity.Authenticated() {
		return
	}
	identity := s.identity
	identity.FirstName = firstName
	identity.LastName = lastName
	s.SetIdentity(identity)
}

func (s *Session) ClearIdentity() {
	delete(s.values, userKey)
	for _, key := range flatIdentityKeys {
		delete(s.values, key)
	}
	s.identity = Identity{}
	s.dirty = true
}

func (s *Session) AddFlash(kind FlashKind, message string) {
	flashes := s.peekFlashes()
	flashes = append(flashes, Flash{Kind: kind, Message: message})
	encoded, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	s.values[flashKey] = encoded
	s.dirty = true
}

// Flashes returns pending flash messages and removes them from the session.
func (s *Session) Flashes() []Flash {
	flashes := s.peekFlashes()
	if _, ok := s.values[flashKey]; ok {
		delete(s.values, flashKey)
		s.dirty = true
	}
	return flashes
}

func (s *Session) peekFlashes() []Flash {
	raw, ok := s.values[flashKey]
	if !ok {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

// CSRFToken returns the session's anti-forgery token, creating it on first use.
func (s *Session) CSRFToken() string {
	if token := decodeString(s.values[csrfKey]); token != "" {
		return token
	}
	token, err := util.GenerateRandomToken(32)
	if err != nil {
		return ""
	}
	encoded, _ := json.Marshal(token)
	s.values[csrfKey] = encoded
	s.dirty = true
	return token
}

// ValidCSRF compares a submitted token with the session's in constant time.
func (s *Session) ValidCSRF(submitted string) bool {
	expected := decodeString(s.values[csrfKey])
	if expected == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}
