// Package fetch retrieves pages over HTTP with a rotating User-Agent pool
// and bounded response bodies.
package fetch

import (
	"sync/atomic"
)

// DefaultUserAgents is the stock desktop pool. Portals that block obvious
// bot agents accept these.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
}

// AgentPool hands out user agents round-robin. Safe for concurrent use.
type AgentPool struct {
	agents []string
	next   atomic.Uint64
}

// NewAgentPool creates a pool over the given agents, falling back to the
// default pool when none are given.
func NewAgentPool(agents []string) *AgentPool {
	if len(agents) == 0 {
		agents = DefaultUserAgents
	}
	return &AgentPool{agents: agents}
}

// Next returns the next agent in rotation.
func (p *AgentPool) Next() string {
	n := p.next.Add(1) - 1
	return p.agents[n%uint64(len(p.agents))]
}
