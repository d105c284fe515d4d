// Package locallm answers natural-language questions about a local folder of
// documents. It maintains a per-directory knowledge map describing every
// document, caches extracted document text, guards rebuilds of the map across
// processes and drives a bounded tool-calling reasoning loop against a local
// language model.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., yaml/, ollama/, sqlite/).
package locallm
