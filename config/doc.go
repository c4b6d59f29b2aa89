// Package config loads rendezvous settings.
//
// Settings are layered, later layers overriding earlier ones:
//
//  1. Built-in defaults
//  2. An optional YAML file, given explicitly or through RENDEZVOUS_CONFIG
//  3. Environment variables prefixed with RENDEZVOUS_
//
// Environment names map to config paths by section:
//
//	RENDEZVOUS_DATABASE_PATH            -> database.path
//	RENDEZVOUS_AI_EMBEDDING_HOST        -> ai.embedding_host
//	RENDEZVOUS_SCORING_MIN_SCORE        -> scoring.min_score
//	RENDEZVOUS_SCORING_WEIGHTS_INTENT   -> scoring.weights.intent
//	RENDEZVOUS_PIPELINE_RETRY_DELAY     -> pipeline.retry_delay
//	RENDEZVOUS_LOG_LEVEL                -> log.level
package config
