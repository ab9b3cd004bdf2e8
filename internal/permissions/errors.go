package permissions

import "fmt"

// RoleNotFoundError signals that a role assignment references a role absent
// from the guild's role list. This is a referential-integrity fault in the
// backing store; it is surfaced rather than skipped so the corruption is
// visible to the caller.
type RoleNotFoundError struct {
	RoleID  int64
	GuildID int64
}

func (e *RoleNotFoundError) Error() string {
	return fmt.Sprintf("permissions: role %d not found in guild %d", e.RoleID, e.GuildID)
}

// PermissionDeniedError signals that an effective permission set is missing a
// required bit. It is an expected authorization failure, not a system fault.
type PermissionDeniedError struct {
	Perm Permission
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permissions: missing %s", e.Perm)
}
