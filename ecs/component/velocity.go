package component

import "github.com/jakecoffman/cp"

type Velocity struct {
	Speed     float64
	Direction cp.Vector
}

var VelocityComponent = newComponent[Velocity](VelocityID)

type Zoom struct {
	Value float64
}

var ZoomComponent = newComponent[Zoom](ZoomID)
