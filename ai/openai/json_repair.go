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


package openai

import "strings"

// repairJSON quotes object keys that small models often emit without quotes,
// either entirely bare (intent: ...) or missing the opening quote (intent": ...).
// String contents are copied untouched.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString, escaped, keyPosition := false, false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			b.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		if keyPosition && isLetter(rune(ch)) {
			j := i
			for j < len(s) && isKeyByte(s[j]) {
				j++
			}
			key := s[i:j]
			switch {
			case j+1 < len(s) && s[j] == '"' && s[j+1] == ':':
				b.WriteString(`"` + key + `"`)
				i = j
			case nextNonSpace(s, j) == ':':
				b.WriteString(`"` + key + `"`)
				i = j - 1
			default:
				b.WriteString(key)
				i = j - 1
			}
			keyPosition = false
			continue
		}

		b.WriteByte(ch)
		switch ch {
		case '"':
			inString = true
			keyPosition = false
		case '{', ',':
			keyPosition = true
		case ' ', '\n', '\t', '\r':
		default:
			keyPosition = false
		}
	}
	return b.String()
}

func isKeyByte(c byte) bool {
	return isLetter(rune(c)) || c == '_' || (c >= '0' && c <= '9')
}

// nextNonSpace returns the first non-whitespace byte at or after i, or 0.
func nextNonSpace(s string, i int) byte {
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ', '\n', '\t', '\r':
			continue
		}
		return s[i]
	}
	return 0
}
