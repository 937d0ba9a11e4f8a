// Package laads talks to the LAADS DAAC https archive: JSON day-directory
// listings and bearer-token file downloads, wrapped in a bounded retry
// combinator.
//
// Failure classification is the contract here. A 404 is an expected outcome
// (the platform has no data for the day) and never retried; 401/403 aborts
// the whole run; transport and server errors are retried up to the budget
// and then surface as transient failures.
package laads
