// Package recon cross-validates technician self-reports from chat
// against the official closed work-order export for one civil day.
//
// The engine is a pure function: both inputs are read fully before any
// parsing, nothing is cached between runs, and two runs over identical
// inputs with the same reference instant produce byte-identical reports.
// Chat events and official rows are joined by contract number; per chat
// event exactly one verdict is produced:
//
//   - Ok: some official row for the contract names the same technician
//     (strict identity match, no partial credit).
//   - Divergent: official rows exist, but under a different technician.
//   - Missing: no official row for the contract passed the same-day,
//     pending-status filter.
//
// Processing follows transcript order after deduplication, so output
// ordering carries no hidden dependency on map iteration.
package recon
