package core

import "errors"

// ErrClientNotFound aborts report generation: no partial output is produced
// for an unknown client.
var ErrClientNotFound = errors.New("client not found")

// ErrPeriodNotFound means the client has no filing period for the requested
// year-month. Callers decide whether that surfaces as an empty report or as a
// "create the period first" message.
var ErrPeriodNotFound = errors.New("filing period not found")
