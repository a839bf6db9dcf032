package model

// Snapshot is the raw users.list payload, cached at most once per UTC
// calendar day. The shape matches the API response body so the cache
// file stays readable as a plain API dump.
type Snapshot struct {
	Members []RawMember `json:"members"`
}
