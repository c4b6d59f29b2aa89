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


package core

import "math"

// IntentKey names one of the fixed reasons a participant attends an event.
type IntentKey string

const (
	IntentBuying     IntentKey = "buying"
	IntentSelling    IntentKey = "selling"
	IntentInvesting  IntentKey = "investing"
	IntentPartnering IntentKey = "partnering"
	IntentLearning   IntentKey = "learning"
	IntentNetworking IntentKey = "networking"
)

// NumIntents is the size of the intent key set.
const NumIntents = 6

// IntentKeys lists every intent in canonical iteration order.
// Tie-breaking anywhere in the module walks keys in this order.
var IntentKeys = [NumIntents]IntentKey{
	IntentBuying,
	IntentSelling,
	IntentInvesting,
	IntentPartnering,
	IntentLearning,
	IntentNetworking,
}

// Index returns the position of k in IntentKeys, or -1 if k is not a known intent.
func (k IntentKey) Index() int {
	for i, key := range IntentKeys {
		if key == k {
			return i
		}
	}
	return -1
}

// Valid reports whether k is one of the six intent keys.
func (k IntentKey) Valid() bool {
	return k.Index() >= 0
}

// ParseIntentKey converts a raw string into an IntentKey.
// The second return value is false for anything outside the key set.
func ParseIntentKey(s string) (IntentKey, bool) {
	k := IntentKey(s)
	return k, k.Valid()
}

// IntentVector holds one non-negative value per intent, indexed by IntentKeys order.
// A raw vector is an unbounded accumulator; a normalized vector sums to 1.
type IntentVector [NumIntents]float64

// UniformVector returns the normalized vector with equal weight on every intent.
func UniformVector() IntentVector {
	var v IntentVector
	for i := range v {
		v[i] = 1.0 / NumIntents
	}
	return v
}

// Get returns the value stored for k. Unknown keys read as zero.
func (v IntentVector) Get(k IntentKey) float64 {
	i := k.Index()
	if i < 0 {
		return 0
	}
	return v[i]
}

// Add accumulates delta onto k. Unknown keys are ignored.
func (v *IntentVector) Add(k IntentKey, delta float64) {
	if i := k.Index(); i >= 0 {
		v[i] += delta
	}
}

// Sum returns the total of all values.
func (v IntentVector) Sum() float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// IsZero reports whether every value is zero.
func (v IntentVector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Normalize scales v so its values sum to 1 with 3 decimals each.
// Values are floored to thousandths and the leftover thousandths go to the
// largest remainders, ties in IntentKeys order, so the sum is exactly 1.000.
// An all-zero vector yields the uniform distribution.
// Negative values are treated as zero.
func (v IntentVector) Normalize() IntentVector {
	var total float64
	for i, x := range v {
		if x < 0 {
			v[i] = 0
			continue
		}
		total += x
	}
	if total <= 0 {
		return UniformVector()
	}

	var units [NumIntents]int
	var rems [NumIntents]float64
	left := normalizeUnits
	for i, x := range v {
		q := x / total * normalizeUnits
		// absorb float error such as 0.3*1000 = 299.99999999999994
		u := int(math.Floor(q + 1e-9))
		units[i] = u
		rems[i] = max(q-float64(u), 0)
		if x == 0 {
			rems[i] = -2
		}
		left -= u
	}
	for ; left > 0; left-- {
		best := 0
		for i := 1; i < NumIntents; i++ {
			if rems[i] > rems[best] {
				best = i
			}
		}
		units[best]++
		rems[best] = -1
	}
	// floor drift can only overshoot by float noise; take it back from the largest share
	for ; left < 0; left++ {
		best := 0
		for i := 1; i < NumIntents; i++ {
			if units[i] > units[best] {
				best = i
			}
		}
		units[best]--
	}

	var out IntentVector
	for i, u := range units {
		out[i] = float64(u) / normalizeUnits
	}
	return out
}

const normalizeUnits = 1000

// Map returns v as a key/value map, mostly for display and JSON output.
func (v IntentVector) Map() map[IntentKey]float64 {
	m := make(map[IntentKey]float64, NumIntents)
	for i, k := range IntentKeys {
		m[k] = v[i]
	}
	return m
}

// Dominant returns the intent with the highest value. Ties go to the earlier key.
func (v IntentVector) Dominant() IntentKey {
	best := 0
	for i := 1; i < NumIntents; i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return IntentKeys[best]
}

// IntentEstimate is a normalized intent vector with the confidence (0-100)
// of the evidence behind it. Confidence 0 means the vector is a uniform fallback.
type IntentEstimate struct {
	Vector     IntentVector
	Confidence int
}

// UniformEstimate is the "no evidence" estimate.
func UniformEstimate() IntentEstimate {
	return IntentEstimate{Vector: UniformVector(), Confidence: 0}
}

// Signal is one extractor's estimate plus the fixed trust weight of its source.
type Signal struct {
	Vector     IntentVector
	Confidence int
	Weight     float64
}

// Round rounds x to the given number of decimal places, half away from zero.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
