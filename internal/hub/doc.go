// Package hub implements the live-connection registry and broadcast
// dispatcher using the actor pattern.
//
// A single goroutine owns all connection and keyword state (command channel,
// no mutexes). Per-connection write goroutines isolate slow clients: a full
// send buffer evicts that client without delaying delivery to the others.
// Keyword watch lifecycle is signalled outward through the
// onKeywordWatched/onKeywordReleased callbacks wired to the poll scheduler.
package hub
