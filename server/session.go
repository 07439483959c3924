package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeu5/keyword-rl/adenv"
)

const (
	SplitTrain = "train"
	SplitTest  = "test"
)

// session owns one environment. The lock serializes reset and step.
type session struct {
	ID    string
	Split string

	lock     *sync.Mutex
	env      *adenv.Environment
	lastUsed time.Time
}

func newSession(split string, env *adenv.Environment) *session {
	return &session{
		ID:    uuid.NewString(),
		Split: split,
		lock:     new(sync.Mutex),
		env:      env,
		lastUsed: time.Now(),
	}
}

func (s *session) Reset() (*adenv.TimeStep, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.lastUsed = time.Now()
	return s.env.Reset()
}

func (s *session) Step(action adenv.OneHot) (*adenv.TimeStep, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.lastUsed = time.Now()
	return s.env.Step(action)
}

// IdleFor is the time since the last reset or step
func (s *session) IdleFor(now time.Time) time.Duration {
	s.lock.Lock()
	defer s.lock.Unlock()
	return now.Sub(s.lastUsed)
}
