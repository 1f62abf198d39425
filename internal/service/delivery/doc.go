// Package delivery fans a campaign out to its audience through a notifier
// and records one communication log per recipient. Individual send failures
// are recorded, never propagated, so one bad address cannot sink a batch.
package delivery
