// Package harvest collects content (code repositories, articles, social
// posts) from external sources, normalizes it into a uniform document shape
// and persists it idempotently for downstream pipelines.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, rod/, goquery/, git/).
package harvest
