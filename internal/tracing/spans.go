package tracing

// Span names.
const (
	SpanSelectAI       = "selector.select_ai"
	SpanSelectMovement = "selector.select_movement"
	SpanSimulate       = "app.simulate"
)

// Span attribute keys.
const (
	AttrCreatureGUID  = "creature.guid"
	AttrCreatureEntry = "creature.entry"
	AttrAIKey         = "ai.key"
	AttrAISource      = "ai.source"
	AttrMovementKey   = "movement.key"
	AttrMovementFound = "movement.found"
	AttrTicks         = "simulate.ticks"
	AttrRunID         = "simulate.run_id"
)
