// Package report renders the branded business-plan PDF handed to the
// candidate: candidate summary, compensation and market details, the NNM
// projection, the prospects table with its TOTAL row, and the
// revenue/cost/net-margin table. Every page carries a diagonal company
// watermark and a confidential footer with the generation time.
//
// No scoring or persistence logic lives here; the builder formats what it is
// given. Monetary values are rendered with thousands separators via
// golang.org/x/text.
package report
