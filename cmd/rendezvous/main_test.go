package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const participantsJSON = `[
  {
    "id": "alice",
    "name": "Alice Moreau",
    "title": "Head of Procurement",
    "company_name": "Ledgerline",
    "looking_for": "payments infrastructure vendors",
    "offering": "pilot budget",
    "explicit_intents": ["buying"],
    "industry": "fintech",
    "expertise": ["payments", "ai"],
    "interests": ["payments", "ai"],
    "role": "buyer"
  },
  {
    "id": "bob",
    "name": "Bob Okafor",
    "title": "Account Executive",
    "company_name": "Paystream",
    "looking_for": "pilot customers",
    "offering": "payments infrastructure",
    "explicit_intents": ["selling"],
    "industry": "fintech",
    "expertise": ["payments", "ai"],
    "interests": ["payments", "ai"],
    "role": "seller"
  },
  {
    "id": "carol",
    "name": "Carol Lin",
    "title": "Resident Physician",
    "explicit_intents": ["learning"],
    "industry": "healthcare"
  }
]`

const scoringYAML = `weights:
  intent: 0.4
  industry: 0.2
  interest: 0.2
  complementarity: 0.2
  embedding: 0
min_score: 30
`

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"rendezvous"}, args...))
	return out.String(), err
}

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })

	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"INFO", false},
		{"warn", false},
		{"error", false},
		{"verbose", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			err := setupLogger(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReadParticipants(t *testing.T) {
	ps, err := readParticipants(bytes.NewBufferString(participantsJSON), "summit")
	require.NoError(t, err)
	require.Len(t, ps, 3)
	assert.Equal(t, "summit", ps[0].EventID)
	assert.Equal(t, "Ledgerline", ps[0].CompanyName)
	assert.Equal(t, []string{"selling"}, ps[1].ExplicitIntents)

	_, err = readParticipants(bytes.NewBufferString(`[{"id":"a"},{"id":"a"}]`), "summit")
	assert.ErrorContains(t, err, "duplicate")

	_, err = readParticipants(bytes.NewBufferString(`[{"id":""}]`), "summit")
	assert.Error(t, err)

	_, err = readParticipants(bytes.NewBufferString(`{`), "summit")
	assert.Error(t, err)
}

func TestAppFlow(t *testing.T) {
	t.Setenv("RENDEZVOUS_CONFIG", "")
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db")
	peoplePath := filepath.Join(dir, "people.json")
	scoringPath := filepath.Join(dir, "scoring.yaml")
	require.NoError(t, os.WriteFile(peoplePath, []byte(participantsJSON), 0o644))
	require.NoError(t, os.WriteFile(scoringPath, []byte(scoringYAML), 0o644))

	global := []string{"--db", dbPath, "--log-level", "error"}
	run := func(args ...string) string {
		out, err := runApp(t, append(global, args...)...)
		require.NoError(t, err, "args: %v", args)
		return out
	}

	out := run("import", "--event", "summit", peoplePath)
	assert.Contains(t, out, "Imported 3 participants into event summit")

	out = run("configure", "--event", "summit")
	assert.Contains(t, out, `"min_score": 40`)

	out = run("configure", "--event", "summit", "--file", scoringPath)
	assert.Contains(t, out, "Stored scoring configuration")

	out = run("configure", "--event", "summit")
	assert.Contains(t, out, `"min_score": 30`)

	out = run("score", "--event", "summit")
	assert.Contains(t, out, "config: event")
	assert.Contains(t, out, "participants:       3")
	assert.Contains(t, out, "pairs evaluated:    3")

	out = run("matches", "--event", "summit", "--json")
	var matches []matchRecord
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.NotEmpty(t, matches)
	assert.Equal(t, 1, matches[0].Rank)
	assert.Equal(t, "alice", matches[0].ParticipantA)
	assert.Equal(t, "bob", matches[0].ParticipantB)
	assert.Equal(t, 100.0, matches[0].Scores.Industry)
	assert.NotEmpty(t, matches[0].Reasons)

	out = run("matches", "--event", "summit", "--participant", "bob")
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "alice")

	out = run("matches", "--event", "other")
	assert.Contains(t, out, "No matches stored for event other")
}

func TestEventFlagRequired(t *testing.T) {
	t.Setenv("RENDEZVOUS_CONFIG", "")
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })

	_, err := runApp(t, "--db", filepath.Join(t.TempDir(), "db"), "--log-level", "error", "score")
	assert.ErrorContains(t, err, "event")
}

func TestImportRequiresFile(t *testing.T) {
	t.Setenv("RENDEZVOUS_CONFIG", "")
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })

	_, err := runApp(t, "--db", filepath.Join(t.TempDir(), "db"), "--log-level", "error", "import", "--event", "summit")
	assert.ErrorContains(t, err, "exactly one JSON file")
}
