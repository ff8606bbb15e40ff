// Package types provides shared type definitions for the catalogpipe
// enrichment pipeline.
//
// The core types model the three stages a product record passes through:
//
//   - RawProduct: a string-keyed map exactly as read from the source file,
//     with no guaranteed fields
//   - Product: the canonical record after normalization and enrichment,
//     with guaranteed field presence and fixed-format values
//   - KnowledgeGraph / MatchResult: pipeline outputs, immutable once built
//
// Types in this package carry no behavior beyond validation and
// serialization; the decision logic lives in the internal pipeline
// packages.
package types
