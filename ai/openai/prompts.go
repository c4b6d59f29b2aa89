package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/rendezvous/ai"
	"github.com/poiesic/rendezvous/core"
)

const classificationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "intents": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "intent": {
            "type": "string",
            "enum": [%s]
          },
          "strength": {
            "type": "number",
            "minimum": 0,
            "maximum": 1
          }
        },
        "required": ["intent", "strength"],
        "additionalProperties": false
      }
    },
    "confidence": {
      "type": "integer",
      "minimum": 0,
      "maximum": 100
    }
  },
  "required": ["intents", "confidence"],
  "additionalProperties": false
}`

const classificationPromptTemplate = `Decide why a conference attendee is attending, based on their profile, and return the answer as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

The possible intents are:
%s

Rules:
- List only intents the profile states or clearly implies. Do not guess.
- Strength is a number from 0 (barely present) to 1 (the main reason for attending).
- Confidence is an integer from 0 to 100 describing how sure you are about the whole answer.
- If the profile gives no hint at all, return "intents": [] and "confidence": 0.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "VP Procurement at Acme Logistics. Evaluating fleet telematics vendors this quarter."
Output:
{
  "intents": [
    {"intent":"buying","strength":0.9},
    {"intent":"networking","strength":0.2}
  ],
  "confidence": 80
}

Example (informal):
Input: "angel investor, mostly here to meet founders and hear some talks"
Output:
{
  "intents": [
    {"intent":"investing","strength":0.8},
    {"intent":"networking","strength":0.4},
    {"intent":"learning","strength":0.3}
  ],
  "confidence": 70
}`

// buildSystemPrompt creates the system prompt with the intent vocabulary embedded.
func buildSystemPrompt() string {
	quoted := make([]string, 0, core.NumIntents)
	var described strings.Builder
	for _, k := range core.IntentKeys {
		quoted = append(quoted, fmt.Sprintf("%q", k))
		fmt.Fprintf(&described, "- %s: %s\n", k, ai.IntentDescriptions[k])
	}
	schema := fmt.Sprintf(classificationResponseSchema, strings.Join(quoted, ", "))
	return fmt.Sprintf(classificationPromptTemplate, schema, strings.TrimSuffix(described.String(), "\n"))
}
