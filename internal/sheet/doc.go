// Package sheet ingests the official work-order workbook and binds its
// unreliable columns to semantic roles.
//
// The export arrives with no schema guarantees: sheet names vary, column
// headers may be renamed or missing, and closure dates show up as Excel
// day serials, localized strings, or both in the same column. The package
// therefore resolves structure in two layers:
//
//  1. Label matching: normalized column headers are tested against a
//     ranked candidate list per role (contract, technician, serial,
//     closure date). First containment match wins.
//  2. Content inference: when labels fail, every column is scored by a
//     role-specific predicate over a bounded sample of rows, and the
//     best column wins if it clears an explicit minimum score.
//
// Resolution is all-or-nothing: a run proceeds only when all four roles
// are bound. Individual cell values that cannot be parsed are excluded
// row by row, never escalated to errors.
package sheet
