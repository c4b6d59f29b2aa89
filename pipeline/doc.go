// Package pipeline runs the per-event workflows around the scoring engine:
// scoring an event end to end and persisting its ranked matches, and asking
// an AI classifier for each participant's intents.
package pipeline
