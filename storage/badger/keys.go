package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	participantPrefix = "parti"
	matchPrefix       = "match"
	eventConfigPrefix = "evcfg"
)

// keySep ends the event component of composite keys. Event IDs cannot
// contain it, so one event's prefix never matches another event's keys.
const keySep = 0x00

// makeEventPrefix generates the prefix shared by all keys of one event.
// Format: prefix:eventID\x00
func makeEventPrefix(prefix, eventID string) []byte {
	buf := make([]byte, 0, len(prefix)+1+len(eventID)+1)
	buf = append(buf, prefix...)
	buf = append(buf, ':')
	buf = append(buf, eventID...)
	return append(buf, keySep)
}

// makeParticipantKey generates a key for a participant within an event.
// Format: parti:eventID\x00participantID
func makeParticipantKey(eventID, participantID string) []byte {
	return append(makeEventPrefix(participantPrefix, eventID), participantID...)
}

// makeMatchKey generates a key for the match at position rank.
// Format: match:eventID\x00rank, rank as big-endian uint32 so keys sort by rank.
func makeMatchKey(eventID string, rank int) []byte {
	buf := makeEventPrefix(matchPrefix, eventID)
	return binary.BigEndian.AppendUint32(buf, uint32(rank))
}

// makeEventConfigKey generates a key for an event's scoring configuration.
func makeEventConfigKey(eventID string) []byte {
	return makeEventPrefix(eventConfigPrefix, eventID)
}
