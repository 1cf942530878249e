package auth

import "github.com/google/uuid"

// UUIDGenerator issues random (version 4) UUIDs for users and sessions.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape of an identifier issued by
// UUIDGenerator: the canonical 36 character form only. uuid.Parse also
// accepts urn:uuid: and braced spellings that postgres rejects.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
