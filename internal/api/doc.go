// Package api exposes the study planner over HTTP: authentication, tasks,
// spaced-repetition reviews and gamification. Handlers decode and validate
// requests, call the service layer, and map domain errors to status codes
// and client-safe messages.
package api
