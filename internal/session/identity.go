package session

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Identity is the signed-in account as recorded in the session.
// A zero ID means nobody is signed in.
type Identity struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (i Identity) Authenticated() bool {
	return i.ID > 0
}

func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// flexibleID accepts a JSON number or a numeric string. Anything else,
// negative values included, decodes to zero.
type flexibleID uint

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		if fl, ferr := strconv.ParseFloat(raw, 64); ferr == nil && fl > 0 && fl == float64(uint64(fl)) {
			n = uint64(fl)
		} else {
			return nil
		}
	}
	*f = flexibleID(n)
	return nil
}

type storedIdentity struct {
	ID        flexibleID `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
}

func (s storedIdentity) identity() Identity {
	return Identity{
		ID:        uint(s.ID),
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
	}
}

const userKey = "user"

var flatIdentityKeys = []string{"user_id", "first_name", "last_name", "email"}

// normalizeIdentity reads whichever identity shape the session holds.
// The structured "user" object wins; otherwise the flat legacy keys are
// read and, when they name a real user, rewritten to the structured shape.
// It reports whether values were changed.
func normalizeIdentity(values map[string]json.RawMessage) (Identity, bool) {
	if raw, ok := values[userKey]; ok {
		var stored storedIdentity
		if err := json.Unmarshal(raw, &stored); err == nil {
			return stored.identity(), false
		}
	}

	rawID, ok := values["user_id"]
	if !ok {
		return Identity{}, false
	}

	var stored storedIdentity
	_ = json.Unmarshal(rawID, &stored.ID)
	stored.FirstName = decodeString(values["first_name"])
	stored.LastName = decodeString(values["last_name"])
	stored.Email = decodeString(values["email"])

	identity := stored.identity()
	if !identity.Authenticated() {
		return Identity{}, false
	}

	encoded, err := json.Marshal(identity)
	if err != nil {
		return identity, false
	}
	values[userKey] = encoded
	for _, key := range flatIdentityKeys {
		delete(values, key)
	}
	return identity, true
}

func decodeString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
