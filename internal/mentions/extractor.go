// Package mentions derives the stored mentions set of a message: the user
// IDs, role IDs, and everyone-marker it references as notification targets.
package mentions

import (
	"regexp"
	"sort"
	"strconv"
)

// inlinePattern matches inline user mention tokens of the form <@id> or <@!id>.
var inlinePattern = regexp.MustCompile(`<@!?(\d+)>`)

// ExtractInline returns all IDs referenced by inline mention tokens in the
// message content, in order of appearance, without validation.
func ExtractInline(content string) []int64 {
	matches := inlinePattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			// Longer than 64 bits; not a real snowflake, drop it.
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Input is everything a message create or edit supplies to mention extraction.
// Explicit mention syntax is parsed upstream by the client; UserIDs and
// RoleIDs carry those candidates. Everyone signals guild-wide intent.
type Input struct {
	GuildID  int64
	Content  string
	UserIDs  []int64
	RoleIDs  []int64
	Everyone bool
}

// Scope is the set of valid targets inside the message's guild. IDs outside
// the scope are dropped silently: cross-guild mention is not a concept, not
// an error.
type Scope struct {
	RoleIDs   map[int64]bool // roles that exist in the guild
	MemberIDs map[int64]bool // users that are members of the guild
}

// Compute builds the mentions set stored on the message: inline and explicit
// user IDs that are guild members, explicit role IDs that exist in the guild,
// and the guild's own ID as the everyone marker when guild-wide intent was
// signaled. The result is sorted and deduplicated. On edit the caller
// replaces the prior set wholesale with this result.
func Compute(in Input, scope Scope) []int64 {
	set := make(map[int64]bool)

	for _, id := range ExtractInline(in.Content) {
		if scope.MemberIDs[id] {
			set[id] = true
		}
	}
	for _, id := range in.UserIDs {
		if scope.MemberIDs[id] {
			set[id] = true
		}
	}
	for _, id := range in.RoleIDs {
		if scope.RoleIDs[id] {
			set[id] = true
		}
	}
	if in.Everyone {
		set[in.GuildID] = true
	}

	if len(set) == 0 {
		return nil
	}
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ComputeDM builds the mentions set for a channel with no guild: only user
// IDs that are recipients of the channel qualify, and there is no everyone
// marker or role mention.
func ComputeDM(content string, userIDs []int64, recipients []int64) []int64 {
	valid := make(map[int64]bool, len(recipients))
	for _, id := range recipients {
		valid[id] = true
	}

	set := make(map[int64]bool)
	for _, id := range ExtractInline(content) {
		if valid[id] {
			set[id] = true
		}
	}
	for _, id := range userIDs {
		if valid[id] {
			set[id] = true
		}
	}

	if len(set) == 0 {
		return nil
	}
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
