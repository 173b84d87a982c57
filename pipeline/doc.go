// Package pipeline drives documents through the ingestion stages:
// discovery, chunking, enrichment, batch embedding and vector-store
// upsert. It owns the per-file progress state machine, checkpointing
// it at a fixed cadence so an interrupted run resumes without
// reprocessing completed files.
package pipeline
