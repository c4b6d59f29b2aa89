package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "valid json untouched", in: `{"intent":"buying","strength":0.5}`, want: `{"intent":"buying","strength":0.5}`},
		{name: "missing opening quote", in: `{"intent":"buying", strength":0.5}`, want: `{"intent":"buying", "strength":0.5}`},
		{name: "bare key", in: `{confidence: 40}`, want: `{"confidence": 40}`},
		{name: "literals in arrays untouched", in: `{"a":[true, false, null]}`, want: `{"a":[true, false, null]}`},
		{name: "string contents untouched", in: `{"note":"a, b: c"}`, want: `{"note":"a, b: c"}`},
		{name: "escaped quote in string", in: `{"note":"say \"hi\", x: y"}`, want: `{"note":"say \"hi\", x: y"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.in))
		})
	}
}

func TestCleanResponse(t *testing.T) {
	assert.Equal(t, `{"confidence": 1}`, cleanResponse("```json\n{confidence: 1}\n```"))
	assert.Equal(t, `{}`, cleanResponse("  {}  "))
}

func TestScrubProfile(t *testing.T) {
	assert.Equal(t, "CTO at Acme. Looking for partners", scrubProfile("  CTO at Acme.\n\n Looking\tfor partners\x00 "))
	assert.Equal(t, "", scrubProfile(" \t\n"))
}
