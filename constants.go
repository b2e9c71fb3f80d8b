package server

import "time"

const (
	writeWait = 10 * time.Second

	// claimCost is the consciousness spent on every territory claim; a
	// claim from a player below this is silently dropped.
	claimCost = 50.0

	// healingThreshold is the running consciousness a player must exceed
	// before their latest territory becomes a healing zone.
	healingThreshold = 150.0

	// healingPowerRate converts consciousness into healing power at the
	// moment a zone is created.
	healingPowerRate = 0.1

	defaultPlayerName = "Anonymous"

	// defaultEventRetention bounds the write side of the event log. The
	// read path truncates further to eventReadLimit.
	defaultEventRetention = 512
	eventReadLimit        = 50
)

// defaultPosition is where players spawn until the client reports a real
// location.
var defaultPosition = Position{Lat: 40.7128, Lng: -74.0060}
