package main

import (
	"context"
	"fmt"
	"iter"
	"log"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/poiesic/rendezvous"
	"github.com/poiesic/rendezvous/core"
	"github.com/urfave/cli/v2"
)

var firstNames = []string{
	"Ada", "Bea", "Cyrus", "Dana", "Elio", "Farah", "Gus", "Hana", "Ivo", "Jun",
	"Kira", "Luis", "Maya", "Nils", "Omar", "Pia", "Quinn", "Rosa", "Sami", "Tomas",
}

var lastNames = []string{
	"Abara", "Berg", "Castillo", "Dubois", "Eze", "Fischer", "Gupta", "Haddad",
	"Ito", "Jensen", "Kowalski", "Larsen", "Mensah", "Novak", "Okoro", "Park",
}

var industries = []string{"fintech", "healthcare", "climate", "logistics", "retail", "security"}

var topics = []string{
	"ai", "payments", "data", "cloud", "robotics", "compliance", "supply chain",
	"energy storage", "growth", "devtools", "privacy", "biotech",
}

var companies = []string{
	"Northwind", "Brightpath", "Lumen Labs", "Kestrel", "Orbital", "Tidewater",
	"Cobalt", "Meridian", "Foxglove", "Halcyon",
}

type persona struct {
	role       string
	intent     core.IntentKey
	titles     []string
	lookingFor string
	offering   string
	bio        string
}

var personas = []persona{
	{
		role:       "founder",
		intent:     core.IntentInvesting,
		titles:     []string{"Founder & CEO", "Co-founder"},
		lookingFor: "seed funding and design partners",
		offering:   "early access to our %s platform",
		bio:        "Building a %s startup and raising our next round.",
	},
	{
		role:       "investor",
		intent:     core.IntentInvesting,
		titles:     []string{"Partner", "Principal"},
		lookingFor: "early stage %s startups",
		offering:   "seed funding and board experience",
		bio:        "Investor backing %s companies at seed and Series A.",
	},
	{
		role:       "buyer",
		intent:     core.IntentBuying,
		titles:     []string{"Head of Procurement", "VP Engineering"},
		lookingFor: "%s vendors",
		offering:   "pilot budget",
		bio:        "Evaluating %s solutions for our team this quarter.",
	},
	{
		role:       "seller",
		intent:     core.IntentSelling,
		titles:     []string{"Account Executive", "Sales Director"},
		lookingFor: "pilot customers",
		offering:   "%s solutions",
		bio:        "Helping teams adopt %s tooling.",
	},
	{
		role:       "engineer",
		intent:     core.IntentLearning,
		titles:     []string{"Software Engineer", "Data Scientist"},
		lookingFor: "mentors in %s",
		offering:   "hands-on engineering help",
		bio:        "Here to learn how others approach %s.",
	},
	{
		role:       "partnerships",
		intent:     core.IntentPartnering,
		titles:     []string{"Partnerships Lead", "BD Manager"},
		lookingFor: "integration partners in %s",
		offering:   "distribution and co-marketing",
		bio:        "Looking to partner with teams working on %s.",
	},
}

func main() {
	app := &cli.App{
		Name:  "seeder",
		Usage: "Fill a database with synthetic event participants",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Aliases: []string{"d"}, Value: "./rendezvous.db", Usage: "BadgerDB database directory"},
			&cli.StringFlag{Name: "event", Aliases: []string{"e"}, Value: "demo", Usage: "Event ID"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 200, Usage: "Number of participants"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "Random seed; equal seeds produce equal data"},
			&cli.IntFlag{Name: "batch", Value: 50, Usage: "Participants written per transaction"},
		},
		Action: seed,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seed(c *cli.Context) error {
	count, batchSize := c.Int("count"), c.Int("batch")
	if count < 1 || batchSize < 1 {
		return fmt.Errorf("count and batch must be positive")
	}

	db, err := rendezvous.NewDatabase(c.String("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	rng := rand.New(rand.NewPCG(c.Uint64("seed"), 0x5eed))
	source := generateParticipants(rng, c.String("event"), count)
	if err := insertBatched(ctx, db, source, batchSize); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Seeded %d participants into event %s\n", count, c.String("event"))
	return nil
}

// generateParticipants yields n deterministic participants for eventID.
func generateParticipants(rng *rand.Rand, eventID string, n int) iter.Seq[*core.Participant] {
	return func(yield func(*core.Participant) bool) {
		for i := range n {
			if !yield(newParticipant(rng, eventID, i)) {
				return
			}
		}
	}
}

func newParticipant(rng *rand.Rand, eventID string, i int) *core.Participant {
	pick := func(xs []string) string { return xs[rng.IntN(len(xs))] }
	per := personas[rng.IntN(len(personas))]
	topic := pick(topics)

	p := &core.Participant{
		ID:          fmt.Sprintf("p%04d", i),
		EventID:     eventID,
		Name:        pick(firstNames) + " " + pick(lastNames),
		Title:       pick(per.titles),
		Bio:         fmt.Sprintf(per.bio, topic),
		CompanyName: pick(companies),
		LookingFor:  withTopic(per.lookingFor, topic),
		Offering:    withTopic(per.offering, topic),
		Industry:    pick(industries),
		Expertise:   sample(rng, topics, 1+rng.IntN(3)),
		Interests:   sample(rng, topics, 1+rng.IntN(3)),
		Role:        per.role,
	}

	// Roughly a third of attendees skip the intent question.
	if rng.IntN(3) > 0 {
		p.ExplicitIntents = []string{string(per.intent)}
		if rng.IntN(4) == 0 {
			p.ExplicitIntents = append(p.ExplicitIntents, string(core.IntentNetworking))
		}
	}
	return p
}

func withTopic(format, topic string) string {
	if strings.Contains(format, "%s") {
		return fmt.Sprintf(format, topic)
	}
	return format
}

// sample returns k distinct elements of xs.
func sample(rng *rand.Rand, xs []string, k int) []string {
	idx := rng.Perm(len(xs))[:min(k, len(xs))]
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = xs[j]
	}
	return out
}

// insertBatched reads participants from source and stores them in batches.
func insertBatched(ctx context.Context, db *rendezvous.Database, source iter.Seq[*core.Participant], batchSize int) error {
	batch := make([]*core.Participant, 0, batchSize)

	for p := range source {
		batch = append(batch, p)
		if len(batch) == batchSize {
			if _, err := db.Participants().AddParticipants(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if _, err := db.Participants().AddParticipants(ctx, batch...); err != nil {
			return err
		}
	}
	return nil
}
