// Package user provides the principal model: sessions and normalized permissions.
package user

import (
	"bytes"
	"encoding/json"
)

// Right holds the read/write bits and upstream identifier for one permission name.
type Right struct {
	Read  bool `json:"read"`
	Write bool `json:"write"`
	ID    int  `json:"id"`
}

// Permissions is the normalized capability map for a principal. An admin
// principal has unconditional access and carries no grants.
type Permissions struct {
	IsAdmin bool             `json:"isAdmin"`
	Grants  map[string]Right `json:"grants"`
}

// authEntry is one record of the upstream auths list.
type authEntry struct {
	Name  string `json:"name"`
	Read  int    `json:"read"`
	Write int    `json:"write"`
	ID    int    `json:"id"`
}

// authPayload is the object shape of the upstream identity response.
type authPayload struct {
	Auths []authEntry `json:"auths"`
}

// NormalizePermissions converts the raw upstream identity response into a
// uniform Permissions value. An empty array signals administrator rights.
// An object with a non-empty auths list is folded into a name-keyed map,
// OR-merging the read/write bits of duplicate names; the later entry's id
// wins. Every other shape normalizes to no permissions at all, so a broken
// or unexpected upstream response never grants access.
func NormalizePermissions(raw json.RawMessage) Permissions {
	// Only a literal JSON array may take the admin branch; null also
	// unmarshals into a slice and must not.
	if trimmed := bytes.TrimLeft(raw, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '[' {
		var asArray []json.RawMessage
		if err := json.Unmarshal(raw, &asArray); err == nil {
			if len(asArray) == 0 {
				return Permissions{IsAdmin: true}
			}
			return Permissions{Grants: map[string]Right{}}
		}
	}

	var payload authPayload
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Auths) == 0 {
		return Permissions{Grants: map[string]Right{}}
	}

	grants := make(map[string]Right, len(payload.Auths))
	for _, entry := range payload.Auths {
		right := grants[entry.Name]
		right.Read = right.Read || entry.Read != 0
		right.Write = right.Write || entry.Write != 0
		right.ID = entry.ID
		grants[entry.Name] = right
	}

	return Permissions{Grants: grants}
}

// Has reports whether the principal may access the named capability. Admins
// pass every check; everyone else needs a matching grant with the requested
// right bit set.
func (p Permissions) Has(name string, requireWrite bool) bool {
	if p.IsAdmin {
		return true
	}
	right, ok := p.Grants[name]
	if !ok {
		return false
	}
	if requireWrite {
		return right.Write
	}
	return right.Read
}
