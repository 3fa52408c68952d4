package ecs

// System advances one concern of the simulation by dt seconds.
type System interface {
	Update(m *Manager, dt float64)
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system in registration order.
func (s *Scheduler) Update(m *Manager, dt float64) {
	for _, system := range s.systems {
		system.Update(m, dt)
	}
}
