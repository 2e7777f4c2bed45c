// Package policy holds the ownership decision applied to every single-record
// station operation. Keeping it in one place means the read, update and delete
// paths cannot drift apart.
package policy

// Decision is the outcome of an ownership check.
type Decision int

const (
	// Deny means the caller is not the owner of the record.
	Deny Decision = iota
	// Allow means the caller owns the record.
	Allow
)

// Decide grants access iff the caller is the record's owner. There is no admin
// override and no sharing.
func Decide(callerID, ownerID int64) Decision {
	if callerID == ownerID {
		return Allow
	}
	return Deny
}
