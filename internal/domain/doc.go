// Package domain contains the core business entities of the application:
// users, tasks (including tasks flagged for spaced-repetition review) and
// per-user gamification profiles.
//
// Entities here carry their own validation and the small bounded containers
// they are built from (the achievement set and the daily completion
// history). Scheduling and scoring rules live in the srs and gamification
// subpackages and operate on these types without touching persistence.
package domain
