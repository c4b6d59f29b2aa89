package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/poiesic/rendezvous/core"
)

// participantRecord is the import format of one attendee.
type participantRecord struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Bio             string   `json:"bio"`
	CompanyName     string   `json:"company_name"`
	LookingFor      string   `json:"looking_for"`
	Offering        string   `json:"offering"`
	ExplicitIntents []string `json:"explicit_intents"`
	Industry        string   `json:"industry"`
	Expertise       []string `json:"expertise"`
	Interests       []string `json:"interests"`
	Role            string   `json:"role"`
}

// readParticipants decodes a JSON array of participant records for eventID.
func readParticipants(r io.Reader, eventID string) ([]*core.Participant, error) {
	var records []participantRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}

	participants := make([]*core.Participant, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		p := &core.Participant{
			ID:              strings.TrimSpace(rec.ID),
			EventID:         eventID,
			Name:            rec.Name,
			Title:           rec.Title,
			Bio:             rec.Bio,
			CompanyName:     rec.CompanyName,
			LookingFor:      rec.LookingFor,
			Offering:        rec.Offering,
			ExplicitIntents: rec.ExplicitIntents,
			Industry:        rec.Industry,
			Expertise:       rec.Expertise,
			Interests:       rec.Interests,
			Role:            rec.Role,
		}
		if err := core.ValidateParticipant(p); err != nil {
			return nil, fmt.Errorf("participant %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("participant %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
		participants = append(participants, p)
	}
	return participants, nil
}

// matchRecord is the JSON output format of one stored match.
type matchRecord struct {
	Rank         int            `json:"rank"`
	ParticipantA string         `json:"participant_a"`
	ParticipantB string         `json:"participant_b"`
	Composite    float64        `json:"composite"`
	Scores       core.SubScores `json:"scores"`
	Reasons      []string       `json:"reasons"`
}

func writeMatchesJSON(w io.Writer, matches []*core.MatchCandidate) error {
	records := make([]matchRecord, len(matches))
	for i, m := range matches {
		records[i] = matchRecord{
			Rank:         i + 1,
			ParticipantA: m.ParticipantA,
			ParticipantB: m.ParticipantB,
			Composite:    m.Composite,
			Scores:       m.Scores,
			Reasons:      m.Reasons,
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
