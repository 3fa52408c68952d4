package component

// Animation tracks how far into the current loop an entity is.
type Animation struct {
	// Time is in milliseconds.
	Time int32
}

var AnimationComponent = newComponent[Animation](AnimationID)
