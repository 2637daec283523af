package internal

import "sync"

type (
	// NameGuard serialises writers that work on the same normalized name
	// inside one process. It does not protect against other processes.
	NameGuard interface {
		Lock(name string)
		Unlock(name string)
	}

	inProcessGuard struct {
		mu   sync.Mutex
		cond *sync.Cond
		held map[string]struct{}
	}
)

func (g *inProcessGuard) Lock(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		if _, busy := g.held[name]; !busy {
			break
		}
		g.cond.Wait()
	}
	g.held[name] = struct{}{}
}

func (g *inProcessGuard) Unlock(name string) {
	g.mu.Lock()
	delete(g.held, name)
	g.mu.Unlock()

	g.cond.Broadcast()
}

func NewNameGuard() NameGuard {
	g := &inProcessGuard{held: make(map[string]struct{})}
	g.cond = sync.NewCond(&g.mu)
	return g
}
