// Package answer turns a question into a human-readable answer.
//
// Service runs the ranker, the intent classifier and the extractor cascade
// against one corpus snapshot and hands the outcome to Compose. When an
// external generator is enabled, the ranked documents go to it instead and
// its text is returned verbatim. Nothing in this path returns an error to
// the caller: failures degrade to fallback text.
package answer
