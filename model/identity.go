package model

import (
	"database/sql/driver"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// IdentitySize is the length in bytes of an account key
const IdentitySize = 32

// Identity is a 32 byte account key (wallet, asset, program or administrator),
// rendered as base58 like the keys of the ledger it is issued on.
type Identity [IdentitySize]byte

// ZeroIdentity is the default key; it is never a valid administrator or asset
var ZeroIdentity Identity

// ParseIdentity decodes a base58 encoded key
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	raw, err := base58.Decode(s)
	if err != nil {
		return id, errors.Wrapf(err, "invalid identity %q", s)
	}
	return IdentityFromBytes(raw)
}

// MustParseIdentity is like ParseIdentity but panics on malformed input
func MustParseIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IdentityFromBytes copies a raw 32 byte key
func IdentityFromBytes(raw []byte) (Identity, error) {
	var id Identity
	if len(raw) != IdentitySize {
		return id, errors.Errorf("invalid identity length: expected %d bytes, got %d", IdentitySize, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

func (id Identity) String() string {
	return base58.Encode(id[:])
}

// Bytes returns a copy of the raw key
func (id Identity) Bytes() []byte {
	b := make([]byte, IdentitySize)
	copy(b, id[:])
	return b
}

// IsZero reports whether the key is the default key
func (id Identity) IsZero() bool {
	return id == ZeroIdentity
}

// MarshalText implements encoding.TextMarshaler
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// GormDataType stores identities as text columns
func (Identity) GormDataType() string {
	return "string"
}

// Value implements driver.Valuer
func (id Identity) Value() (driver.Value, error) {
	return id.String(), nil
}

// Scan implements sql.Scanner
func (id *Identity) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		return id.UnmarshalText(v)
	case nil:
		*id = ZeroIdentity
		return nil
	default:
		return errors.Errorf("unable to scan %T into identity", src)
	}
}
