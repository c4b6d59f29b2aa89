package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored records.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Participant is the scoring profile of one person attending an event.
// Empty strings and nil slices mean "not provided".
type Participant struct {
	ID      string
	EventID string
	Name    string

	Title       string
	Bio         string
	CompanyName string
	LookingFor  string
	Offering    string

	// ExplicitIntents holds the raw self-reported selections. Values outside
	// the intent key set are dropped during extraction.
	ExplicitIntents []string

	Industry  string
	Expertise []string
	Interests []string
	Role      string

	// Intent is the cached fused estimate from a previous run.
	Intent *IntentEstimate
	// Classification is an optional AI-produced estimate kept for review.
	// It does not participate in fusion.
	Classification *IntentEstimate
	// Embedding is the normalized profile embedding used for similarity.
	Embedding []float32

	InsertedAt time.Time
	UpdatedAt  time.Time
}

// DisplayName returns the name used in match reasons.
// Falls back to the first word of Name, then the participant ID.
func (p *Participant) DisplayName() string {
	if fields := strings.Fields(p.Name); len(fields) > 0 {
		return fields[0]
	}
	return p.ID
}

// PairKey identifies an unordered participant pair in canonical order (A < B).
type PairKey struct {
	A string
	B string
}

// NewPairKey orders two participant IDs canonically.
func NewPairKey(x, y string) PairKey {
	if y < x {
		x, y = y, x
	}
	return PairKey{A: x, B: y}
}

// String returns "A:B".
func (k PairKey) String() string {
	return k.A + ":" + k.B
}

// Similarities maps canonical pairs to a precomputed similarity in [0,1].
type Similarities map[PairKey]float64

// Lookup returns the similarity for the pair regardless of argument order.
func (s Similarities) Lookup(x, y string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s[NewPairKey(x, y)]
	return v, ok
}

// SubScores are the independent 0-100 scores folded into a composite.
type SubScores struct {
	Intent          float64 `json:"intent"`
	Industry        float64 `json:"industry"`
	Interest        float64 `json:"interest"`
	Complementarity float64 `json:"complementarity"`
	Embedding       float64 `json:"embedding"`
}

// MatchCandidate is one recommended introduction between two participants.
// ParticipantA always sorts before ParticipantB.
type MatchCandidate struct {
	Id           ID
	EventID      string
	ParticipantA string
	ParticipantB string
	Scores       SubScores
	Composite    float64
	Reasons      []string
	CreatedAt    time.Time
}

// Pair returns the canonical pair key of the candidate.
func (m *MatchCandidate) Pair() PairKey {
	return PairKey{A: m.ParticipantA, B: m.ParticipantB}
}

// MatchID returns the deterministic record ID of a candidate within an event.
func MatchID(eventID string, pair PairKey) ID {
	return IDFromContent(eventID + ":" + pair.String())
}
