// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/rendezvous/core"
)

// Records are encoded field by field with MUS primitives. Each record starts
// with a format version so later layouts can be told apart.
const (
	participantVersion = 1
	matchVersion       = 1
	configVersion      = 1
)

// encoder writes MUS values into bs. With sizing set it only counts bytes,
// so the same field sequence drives both the size and the write pass.
type encoder struct {
	bs     []byte
	n      int
	sizing bool
}

func (e *encoder) int(v int) {
	if e.sizing {
		e.n += varint.Int.Size(v)
		return
	}
	e.n += varint.Int.Marshal(v, e.bs[e.n:])
}

func (e *encoder) uint64(v uint64) {
	if e.sizing {
		e.n += varint.Uint64.Size(v)
		return
	}
	e.n += varint.Uint64.Marshal(v, e.bs[e.n:])
}

func (e *encoder) int64(v int64) {
	if e.sizing {
		e.n += varint.Int64.Size(v)
		return
	}
	e.n += varint.Int64.Marshal(v, e.bs[e.n:])
}

func (e *encoder) string(v string) {
	if e.sizing {
		e.n += ord.String.Size(v)
		return
	}
	e.n += ord.String.Marshal(v, e.bs[e.n:])
}

func (e *encoder) bool(v bool) {
	if e.sizing {
		e.n += ord.Bool.Size(v)
		return
	}
	e.n += ord.Bool.Marshal(v, e.bs[e.n:])
}

func (e *encoder) float64(v float64) {
	if e.sizing {
		e.n += raw.Float64.Size(v)
		return
	}
	e.n += raw.Float64.Marshal(v, e.bs[e.n:])
}

func (e *encoder) float32(v float32) {
	if e.sizing {
		e.n += raw.Float32.Size(v)
		return
	}
	e.n += raw.Float32.Marshal(v, e.bs[e.n:])
}

func (e *encoder) time(t time.Time) {
	e.int64(t.UnixMicro())
}

func (e *encoder) strings(ss []string) {
	e.int(len(ss))
	for _, s := range ss {
		e.string(s)
	}
}

func (e *encoder) float32s(fs []float32) {
	e.int(len(fs))
	for _, f := range fs {
		e.float32(f)
	}
}

func (e *encoder) estimate(est *core.IntentEstimate) {
	e.bool(est != nil)
	if est == nil {
		return
	}
	for _, v := range est.Vector {
		e.float64(v)
	}
	e.int(est.Confidence)
}

// encode runs fn twice: once to size the buffer and once to fill it.
func encode(fn func(e *encoder)) []byte {
	sizer := &encoder{sizing: true}
	fn(sizer)
	w := &encoder{bs: make([]byte, sizer.n)}
	fn(w)
	return w.bs
}

// decoder reads MUS values from bs. The first error sticks and makes every
// later read a no-op.
type decoder struct {
	bs  []byte
	n   int
	err error
}

func (d *decoder) int() int {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) uint64() uint64 {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) int64() int64 {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) string() string {
	if d.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) bool() bool {
	if d.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) float64() float64 {
	if d.err != nil {
		return 0
	}
	v, n, err := raw.Float64.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) float32() float32 {
	if d.err != nil {
		return 0
	}
	v, n, err := raw.Float32.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) time() time.Time {
	return time.UnixMicro(d.int64()).UTC()
}

// length reads a collection length and rejects values the remaining bytes
// cannot possibly hold.
func (d *decoder) length() int {
	l := d.int()
	if d.err == nil && (l < 0 || l > len(d.bs)-d.n) {
		d.err = fmt.Errorf("%w: length %d exceeds %d remaining bytes", ErrTruncatedData, l, len(d.bs)-d.n)
	}
	if d.err != nil {
		return 0
	}
	return l
}

func (d *decoder) strings() []string {
	l := d.length()
	if l == 0 {
		return nil
	}
	out := make([]string, l)
	for i := range out {
		out[i] = d.string()
	}
	return out
}

func (d *decoder) float32s() []float32 {
	l := d.length()
	if l == 0 {
		return nil
	}
	out := make([]float32, l)
	for i := range out {
		out[i] = d.float32()
	}
	return out
}

func (d *decoder) estimate() *core.IntentEstimate {
	if !d.bool() {
		return nil
	}
	var est core.IntentEstimate
	for i := range est.Vector {
		est.Vector[i] = d.float64()
	}
	est.Confidence = d.int()
	if d.err != nil {
		return nil
	}
	return &est
}

func (d *decoder) version(want int) {
	if v := d.int(); d.err == nil && v != want {
		d.err = fmt.Errorf("unsupported record version %d", v)
	}
}

// finish reports the first decoding error, wrapped as a serialization failure.
func (d *decoder) finish(what string) error {
	if d.err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSerializationFailed, what, d.err)
	}
	return nil
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	return encode(func(e *encoder) { e.uint64(uint64(id)) })
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	d := &decoder{bs: data}
	id := core.ID(d.uint64())
	return id, d.finish("id")
}

// MarshalParticipant serializes a Participant to bytes.
func MarshalParticipant(p *core.Participant) []byte {
	return encode(func(e *encoder) {
		e.int(participantVersion)
		e.string(p.ID)
		e.string(p.EventID)
		e.string(p.Name)
		e.string(p.Title)
		e.string(p.Bio)
		e.string(p.CompanyName)
		e.string(p.LookingFor)
		e.string(p.Offering)
		e.strings(p.ExplicitIntents)
		e.string(p.Industry)
		e.strings(p.Expertise)
		e.strings(p.Interests)
		e.string(p.Role)
		e.estimate(p.Intent)
		e.estimate(p.Classification)
		e.float32s(p.Embedding)
		e.time(p.InsertedAt)
		e.time(p.UpdatedAt)
	})
}

// UnmarshalParticipant deserializes a Participant from bytes.
func UnmarshalParticipant(data []byte) (*core.Participant, error) {
	d := &decoder{bs: data}
	d.version(participantVersion)
	p := &core.Participant{
		ID:              d.string(),
		EventID:         d.string(),
		Name:            d.string(),
		Title:           d.string(),
		Bio:             d.string(),
		CompanyName:     d.string(),
		LookingFor:      d.string(),
		Offering:        d.string(),
		ExplicitIntents: d.strings(),
		Industry:        d.string(),
		Expertise:       d.strings(),
		Interests:       d.strings(),
		Role:            d.string(),
		Intent:          d.estimate(),
		Classification:  d.estimate(),
		Embedding:       d.float32s(),
		InsertedAt:      d.time(),
		UpdatedAt:       d.time(),
	}
	if err := d.finish("participant"); err != nil {
		return nil, err
	}
	return p, nil
}

// MarshalMatchCandidate serializes a MatchCandidate to bytes.
func MarshalMatchCandidate(m *core.MatchCandidate) []byte {
	return encode(func(e *encoder) {
		e.int(matchVersion)
		e.uint64(uint64(m.Id))
		e.string(m.EventID)
		e.string(m.ParticipantA)
		e.string(m.ParticipantB)
		e.float64(m.Scores.Intent)
		e.float64(m.Scores.Industry)
		e.float64(m.Scores.Interest)
		e.float64(m.Scores.Complementarity)
		e.float64(m.Scores.Embedding)
		e.float64(m.Composite)
		e.strings(m.Reasons)
		e.time(m.CreatedAt)
	})
}

// UnmarshalMatchCandidate deserializes a MatchCandidate from bytes.
func UnmarshalMatchCandidate(data []byte) (*core.MatchCandidate, error) {
	d := &decoder{bs: data}
	d.version(matchVersion)
	m := &core.MatchCandidate{
		Id:           core.ID(d.uint64()),
		EventID:      d.string(),
		ParticipantA: d.string(),
		ParticipantB: d.string(),
		Scores: core.SubScores{
			Intent:          d.float64(),
			Industry:        d.float64(),
			Interest:        d.float64(),
			Complementarity: d.float64(),
			Embedding:       d.float64(),
		},
		Composite: d.float64(),
		Reasons:   d.strings(),
		CreatedAt: d.time(),
	}
	if err := d.finish("match candidate"); err != nil {
		return nil, err
	}
	return m, nil
}

// MarshalScoringConfig serializes a ScoringConfig to bytes.
func MarshalScoringConfig(cfg *core.ScoringConfig) []byte {
	return encode(func(e *encoder) {
		e.int(configVersion)
		e.float64(cfg.Weights.Intent)
		e.float64(cfg.Weights.Industry)
		e.float64(cfg.Weights.Interest)
		e.float64(cfg.Weights.Complementarity)
		e.float64(cfg.Weights.Embedding)
		e.float64(cfg.MinScore)
		e.bool(cfg.ExcludeSameCompany)
		e.bool(cfg.ExcludeSameRole)
		e.int(cfg.IntentConfidenceThreshold)
	})
}

// UnmarshalScoringConfig deserializes a ScoringConfig from bytes.
func UnmarshalScoringConfig(data []byte) (*core.ScoringConfig, error) {
	d := &decoder{bs: data}
	d.version(configVersion)
	cfg := &core.ScoringConfig{
		Weights: core.Weights{
			Intent:          d.float64(),
			Industry:        d.float64(),
			Interest:        d.float64(),
			Complementarity: d.float64(),
			Embedding:       d.float64(),
		},
		MinScore:                  d.float64(),
		ExcludeSameCompany:        d.bool(),
		ExcludeSameRole:           d.bool(),
		IntentConfidenceThreshold: d.int(),
	}
	if err := d.finish("scoring config"); err != nil {
		return nil, err
	}
	return cfg, nil
}
