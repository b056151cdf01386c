// Package scoring converts a candidate record and its prospect list into a
// numeric score, a verdict tier, and categorized explanations.
//
// Evaluate is a pure function: no I/O, no side effects, and total over its
// inputs — absent numeric values score as zero rather than failing. The
// scoring rule is an ordered list of independent criterion evaluators, each
// producing a point delta plus one categorized message; deltas are summed and
// messages concatenated per category, so each criterion can be tested on its
// own.
//
// Verdict tiers: score ≥7 Strong, 4–6 Medium, <4 Weak.
package scoring
