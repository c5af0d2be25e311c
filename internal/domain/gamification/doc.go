// Package gamification scores user activity: points, levels, daily streaks
// and one-time achievements.
//
// Every scoring event goes through Engine.RecordEvent, which returns an
// updated copy of the user's domain.Profile together with what changed. The
// engine is configured once per deployment with a Flavor that fixes the
// level formula and whether achievements pay bonus points.
//
// Streaks count consecutive calendar days with activity in a configured
// time zone. Task completions and daily check-ins extend the streak; a
// second check-in on the same day is a successful no-op.
package gamification
