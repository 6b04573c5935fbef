// Package analysis summarizes a corpus for operators: who writes the most,
// how many records lack a body, how many bodies repeat, and the time span
// the messages cover.
package analysis
