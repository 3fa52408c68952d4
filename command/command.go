package command

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const DefaultLimit = 100

var ErrNilCommand = errors.New("command: nil command")

// Command is a reversible edit.
type Command interface {
	Execute() error
	Undo() error
}

// Manager keeps undo and redo history. Commands are undone in reverse order
// of execution, so each one can rely on the state it left behind.
type Manager struct {
	undo   []Command
	redo   []Command
	limit  int
	logger *zap.Logger
}

type Option func(*Manager)

// WithLimit caps the undo history; the oldest commands are dropped first.
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{limit: DefaultLimit, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do executes cmd and records it. Redo history is discarded.
func (m *Manager) Do(cmd Command) error {
	if cmd == nil {
		return ErrNilCommand
	}
	if err := cmd.Execute(); err != nil {
		return fmt.Errorf("command: execute %s: %w", describe(cmd), err)
	}
	m.undo = append(m.undo, cmd)
	if len(m.undo) > m.limit {
		m.undo = m.undo[len(m.undo)-m.limit:]
	}
	m.redo = m.redo[:0]
	m.logger.Debug("do", zap.String("command", describe(cmd)))
	return nil
}

// Undo reverts the most recent command. It reports false when there is
// nothing to undo.
func (m *Manager) Undo() (bool, error) {
	if len(m.undo) == 0 {
		return false, nil
	}
	cmd := m.undo[len(m.undo)-1]
	if err := cmd.Undo(); err != nil {
		return false, fmt.Errorf("command: undo %s: %w", describe(cmd), err)
	}
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, cmd)
	m.logger.Debug("undo", zap.String("command", describe(cmd)))
	return true, nil
}

// Redo executes the most recently undone command again.
func (m *Manager) Redo() (bool, error) {
	if len(m.redo) == 0 {
		return false, nil
	}
	cmd := m.redo[len(m.redo)-1]
	if err := cmd.Execute(); err != nil {
		return false, fmt.Errorf("command: redo %s: %w", describe(cmd), err)
	}
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, cmd)
	m.logger.Debug("redo", zap.String("command", describe(cmd)))
	return true, nil
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Clear drops all history without touching any state.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}

func describe(cmd Command) string {
	if s, ok := cmd.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", cmd)
}
