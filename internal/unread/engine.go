package unread

import (
	"sort"

	"github.com/victorivanov/guildcore/internal/mentions"
	"github.com/victorivanov/guildcore/internal/models"
)

// Candidate is one message row considered by the engine: its identity, the
// guild it belongs to (zero for DM-style channels), and its mentions set.
type Candidate struct {
	MessageID int64
	ChannelID int64
	GuildID   int64
	Mentions  []int64
}

// Snapshot is the immutable input to one unread-mentions query. Role
// memberships are recomputed by the caller per query, not cached, since
// assignments can change between calls.
type Snapshot struct {
	// Cursors maps channel ID to the user's last acked message ID. A channel
	// absent from the map has never been acked: every message qualifies.
	Cursors map[int64]int64
	// RolesByGuild maps guild ID to the user's currently assigned role IDs.
	RolesByGuild map[int64]map[int64]bool
	// MutedChannels and MutedGuilds suppress surfaced mentions entirely.
	MutedChannels map[int64]bool
	MutedGuilds   map[int64]bool
	// SuppressEveryone drops everyone-marker matches for the keyed channel or
	// guild ID. Direct and role mentions still surface.
	SuppressEveryone map[int64]bool
}

// Mentions returns the unread mentions for userID among the candidate
// messages, restricted to channelIDs. A message qualifies iff it is past the
// channel's cursor and its mentions set contains the user, the channel's
// guild (everyone marker), or any role currently assigned to the user in
// that guild. Results are sorted by (channel ID, message ID); there is no
// cross-channel ordering requirement beyond that stable sort.
//
// Matching runs over an inverted index built from the surviving candidates:
// one lookup for the user, one per guild for its role set, one per guild for
// the everyone marker.
func Mentions(userID int64, channelIDs map[int64]bool, candidates []Candidate, snap Snapshot) []models.UnreadMention {
	ix := mentions.NewIndex()
	guildOf := make(map[int64]int64, len(candidates)) // messageID → guildID
	for _, c := range candidates {
		if !channelIDs[c.ChannelID] {
			continue
		}
		if snap.MutedChannels[c.ChannelID] || snap.MutedGuilds[c.GuildID] {
			continue
		}
		if cursor, ok := snap.Cursors[c.ChannelID]; ok && c.MessageID <= cursor {
			continue
		}
		ix.Put(c.MessageID, c.ChannelID, c.Mentions)
		guildOf[c.MessageID] = c.GuildID
	}

	matched := make(map[mentions.Ref]bool)
	for _, ref := range ix.Lookup(userID) {
		matched[ref] = true
	}

	for guildID, roles := range snap.RolesByGuild {
		targets := make([]int64, 0, len(roles))
		for id := range roles {
			targets = append(targets, id)
		}
		for _, ref := range ix.Lookup(targets...) {
			// A role held in one guild never matches a message in another.
			if guildOf[ref.MessageID] == guildID {
				matched[ref] = true
			}
		}
	}

	guilds := make(map[int64]bool, len(guildOf))
	for _, g := range guildOf {
		if g != 0 {
			guilds[g] = true
		}
	}
	for guildID := range guilds {
		if snap.SuppressEveryone[guildID] {
			continue
		}
		for _, ref := range ix.Lookup(guildID) {
			if guildOf[ref.MessageID] != guildID || snap.SuppressEveryone[ref.ChannelID] {
				continue
			}
			matched[ref] = true
		}
	}

	var out []models.UnreadMention
	for ref := range matched {
		out = append(out, models.UnreadMention{MessageID: ref.MessageID, ChannelID: ref.ChannelID})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChannelID != out[j].ChannelID {
			return out[i].ChannelID < out[j].ChannelID
		}
		return out[i].MessageID < out[j].MessageID
	})
	return out
}
