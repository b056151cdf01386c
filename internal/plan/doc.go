// Package plan holds the business-plan data model: the candidate record
// captured by the form, the ordered prospect list, and the derived
// revenue/cost/margin projection.
//
// Candidate is the flat record of form inputs. Projection is computed from it
// with Project(). NewRecord assembles the flat column→value record that is
// persisted to the sheet and covered by the dedupe signature; HeaderOrder is
// the column contract the external sheet must match.
//
// ProspectList supports positional add/update/delete (the form edits rows in
// place) and CSV import via ImportProspectsCSV.
package plan
