// Package extract classifies questions by intent and pulls structured facts
// out of ranked member messages.
//
// # Intents
//
// Classify maps a question to exactly one Intent by first-match keyword
// priority: temporal, quantity, preference, then generic.
//
// # Strategies
//
// Each intent owns an ordered list of named Strategy values. A strategy is a
// pure function from documents to an optional Result; the Extractor runs them
// in order and the first one that reports a result wins. New heuristics are
// added by inserting a strategy into the list, without touching the answer
// composer.
//
// # Bounded work
//
// Before any pattern runs, each document's text is cut to a fixed byte budget
// (rune-aligned). Patterns use the RE2 engine, so matching time is linear in
// the bounded input.
package extract
