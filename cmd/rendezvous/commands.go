package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/poiesic/rendezvous/config"
	"github.com/poiesic/rendezvous/core"
	"github.com/poiesic/rendezvous/pipeline"
	"github.com/poiesic/rendezvous/similarity"
	"github.com/urfave/cli/v2"
)

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("import requires exactly one JSON file argument")
	}
	eventID := c.String("event")

	f, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to open participants file: %w", err)
	}
	defer f.Close()

	participants, err := readParticipants(f, eventID)
	if err != nil {
		return err
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	stored, err := db.Participants().AddParticipants(commandContext(c), participants...)
	if err != nil {
		return fmt.Errorf("failed to store participants: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Imported %d participants into event %s\n", len(stored), eventID)
	return nil
}

func configureCommand(c *cli.Context) error {
	eventID := c.String("event")
	ctx := commandContext(c)

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if path := c.String("file"); path != "" {
		cfg, err := config.LoadScoring(path)
		if err != nil {
			return err
		}
		if err := db.EventConfigs().SaveScoringConfig(ctx, eventID, cfg); err != nil {
			return fmt.Errorf("failed to save scoring configuration: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Stored scoring configuration for event %s\n", eventID)
		return nil
	}

	cfg, err := db.EventConfigs().LoadScoringConfig(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load scoring configuration: %w", err)
	}
	if cfg == nil {
		defaults := core.DefaultScoringConfig()
		cfg = &defaults
		slog.Info("no stored scoring configuration, showing defaults", "event", eventID)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s\n", data)
	return nil
}

func embedCommand(c *cli.Context) error {
	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	refresher := db.NewRefresher(&similarity.Config{
		BatchSize:      cfg.Pipeline.EmbedBatchSize,
		ReportInterval: cfg.Pipeline.EmbedBatchSize,
		MaxRetries:     cfg.Pipeline.MaxRetries,
		RetryDelay:     cfg.Pipeline.RetryDelay,
		Force:          c.Bool("force"),
	}, os.Stderr)

	summary, err := refresher.Run(commandContext(c), c.String("event"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Embedded %d of %d participants (%d skipped) in %v\n",
		summary.Embedded, summary.Participants, summary.Skipped, summary.Elapsed)
	return nil
}

func classifyCommand(c *cli.Context) error {
	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := db.NewPipeline(
		pipeline.WithPoolSize(cfg.Pipeline.PoolSize),
		pipeline.WithRetries(cfg.Pipeline.MaxRetries, cfg.Pipeline.RetryDelay),
	)
	if err != nil {
		return err
	}
	defer p.Release()

	summary, err := p.Classify(commandContext(c), c.String("event"), c.Bool("force"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Classified %d of %d participants (%d skipped, %d failed) in %v\n",
		summary.Classified, summary.Participants, summary.Skipped, summary.Failed, summary.Duration)
	return nil
}

func scoreCommand(c *cli.Context) error {
	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := db.NewPipeline(
		pipeline.WithPoolSize(cfg.Pipeline.PoolSize),
		pipeline.WithBatchSize(cfg.Pipeline.BatchSize),
		pipeline.WithRetries(cfg.Pipeline.MaxRetries, cfg.Pipeline.RetryDelay),
		pipeline.WithDefaultScoringConfig(cfg.Scoring),
	)
	if err != nil {
		return err
	}
	defer p.Release()

	summary, runErr := p.Run(commandContext(c), c.String("event"))
	if path := cfg.Metrics.Textfile; path != "" {
		if err := p.Metrics().WriteTextfile(path); err != nil {
			slog.Warn("failed to write metrics textfile", "path", path, "err", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	printRunSummary(c.App.Writer, summary)
	return nil
}

func printRunSummary(w io.Writer, s *pipeline.RunSummary) {
	fmt.Fprintf(w, "Run %s for event %s (config: %s)\n", s.RunID, s.EventID, s.ConfigSource)
	fmt.Fprintf(w, "  participants:       %d\n", s.Participants)
	fmt.Fprintf(w, "  pairs evaluated:    %d\n", s.Evaluated)
	fmt.Fprintf(w, "  excluded:           %d\n", s.Excluded)
	fmt.Fprintf(w, "  below threshold:    %d\n", s.BelowThreshold)
	fmt.Fprintf(w, "  matches:            %d\n", s.Matches)
	fmt.Fprintf(w, "  vectors recomputed: %d\n", s.VectorsRecomputed)
	fmt.Fprintf(w, "  embeddings used:    %t\n", s.HasEmbeddings)
	fmt.Fprintf(w, "  weights:            intent=%.2f industry=%.2f interest=%.2f complementarity=%.2f embedding=%.2f\n",
		s.Weights.Intent, s.Weights.Industry, s.Weights.Interest, s.Weights.Complementarity, s.Weights.Embedding)
	fmt.Fprintf(w, "  duration:           %v\n", s.Duration)
}

func matchesCommand(c *cli.Context) error {
	eventID := c.String("event")
	ctx := commandContext(c)

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var matches []*core.MatchCandidate
	if pid := c.String("participant"); pid != "" {
		matches, err = db.Matches().ListMatchesForParticipant(ctx, eventID, pid)
		if limit := c.Int("limit"); err == nil && limit > 0 && len(matches) > limit {
			matches = matches[:limit]
		}
	} else {
		matches, err = db.Matches().ListMatches(ctx, eventID, c.Int("limit"))
	}
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}

	if c.Bool("json") {
		return writeMatchesJSON(c.App.Writer, matches)
	}

	if len(matches) == 0 {
		fmt.Fprintf(c.App.Writer, "No matches stored for event %s\n", eventID)
		return nil
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tA\tB\tSCORE\tINTENT\tINDUSTRY\tINTEREST\tCOMPL\tEMBED\tREASONS")
	for i, m := range matches {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%s\n",
			i+1, m.ParticipantA, m.ParticipantB, m.Composite,
			m.Scores.Intent, m.Scores.Industry, m.Scores.Interest,
			m.Scores.Complementarity, m.Scores.Embedding,
			strings.Join(m.Reasons, "; "))
	}
	return tw.Flush()
}
