// Package srs schedules spaced-repetition reviews of review items.
//
// The first two completed reviews use fixed intervals (1 and 3 days by
// default). From the third review on, the interval is the real time elapsed
// since the previous review multiplied by an ease factor derived from the
// user's difficulty rating, then shortened for hard items or lengthened for
// easy ones.
//
// All functions are pure and operate on copies of domain.Task values, which
// keeps them deterministic and trivially testable with fixed clocks.
package srs
