package types

// MemberID represents a unique identifier for a workspace member
type MemberID string

// String returns the string representation of MemberID
func (x MemberID) String() string {
	return string(x)
}
