package mentions

import (
	"sort"
	"sync"
)

// Ref locates a message inside the index.
type Ref struct {
	MessageID int64
	ChannelID int64
}

// Index is an inverted index from mention target ID to the messages that
// mention it. It serves the in-memory unread path, where the backing store's
// array-containment queries are not available.
type Index struct {
	mu       sync.RWMutex
	byTarget map[int64]map[Ref]bool
	byMsg    map[int64][]int64 // messageID → targets, for wholesale replace on edit
	channel  map[int64]int64   // messageID → channelID
}

func NewIndex() *Index {
	return &Index{
		byTarget: make(map[int64]map[Ref]bool),
		byMsg:    make(map[int64][]int64),
		channel:  make(map[int64]int64),
	}
}

// Put records a message's mentions set, replacing any previous entry for the
// same message ID. Mentions are replaced wholesale on edit, so there is no
// incremental patching.
func (ix *Index) Put(messageID, channelID int64, targets []int64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.removeLocked(messageID)

	if len(targets) == 0 {
		return
	}
	ref := Ref{MessageID: messageID, ChannelID: channelID}
	for _, target := range targets {
		if ix.byTarget[target] == nil {
			ix.byTarget[target] = make(map[Ref]bool)
		}
		ix.byTarget[target][ref] = true
	}
	ix.byMsg[messageID] = append([]int64(nil), targets...)
	ix.channel[messageID] = channelID
}

// Remove drops a message from the index.
func (ix *Index) Remove(messageID int64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(messageID)
}

func (ix *Index) removeLocked(messageID int64) {
	targets, ok := ix.byMsg[messageID]
	if !ok {
		return
	}
	ref := Ref{MessageID: messageID, ChannelID: ix.channel[messageID]}
	for _, target := range targets {
		if refs := ix.byTarget[target]; refs != nil {
			delete(refs, ref)
			if len(refs) == 0 {
				delete(ix.byTarget, target)
			}
		}
	}
	delete(ix.byMsg, messageID)
	delete(ix.channel, messageID)
}

// Lookup returns every message mentioning any of the given targets, sorted by
// (channel ID, message ID) for deterministic pagination.
func (ix *Index) Lookup(targets ...int64) []Ref {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	seen := make(map[Ref]bool)
	var out []Ref
	for _, target := range targets {
		for ref := range ix.byTarget[target] {
			if !seen[ref] {
				seen[ref] = true
				out = append(out, ref)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ChannelID != out[j].ChannelID {
			return out[i].ChannelID < out[j].ChannelID
		}
		return out[i].MessageID < out[j].MessageID
	})
	return out
}
