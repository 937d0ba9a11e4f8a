// Package services defines the error taxonomy shared by the fetch and
// processing components, plus context carriers for run/year/day correlation
// fields.
//
// Errors are classified by wrapping one of the exported sentinel errors;
// callers use errors.Is (or IsFatal) to decide whether a failure aborts the
// run, abandons a candidate, or simply moves the scheduler to the next day.
package services
