/* Copyright 2025 Memorymap Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sync

import (
	"context"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/memorymap/memorymap/pkg/cli/log"
)

// DefaultProbeInterval is the interval between health checks when none is given
const DefaultProbeInterval = 30 * time.Second

// Connectivity reports whether the remote store is reachable
type Connectivity interface {
	Online() bool
}

// StaticConnectivity is a connectivity state set by the caller
type StaticConnectivity struct {
	online atomic.Bool
}

// NewStaticConnectivity returns a connectivity state with the given initial value
func NewStaticConnectivity(online bool) *StaticConnectivity {
	c := &StaticConnectivity{}
	c.online.Store(online)

	return c
}

// Online reports the current state
func (c *StaticConnectivity) Online() bool {
	return c.online.Load()
}

// Set changes the current state
func (c *StaticConnectivity) Set(online bool) {
	c.online.Store(online)
}

// HealthChecker checks that a remote store is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Prober derives connectivity from periodic health checks of the remote store
type Prober struct {
	checker  HealthChecker
	interval time.Duration
	timeout  time.Duration

	mu     gosync.Mutex
	online bool
	known  bool
}

// NewProber returns a prober that checks the remote store every interval
func NewProber(checker HealthChecker, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}

	timeout := interval
	if timeout > 10*time.Second {
		timeout = 10 * time.Second
	}

	return &Prober{
		checker:  checker,
		interval: interval,
		timeout:  timeout,
	}
}

// Online reports the result of the last probe. It is false before the first probe.
func (p *Prober) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.online
}

// Probe checks the remote store once. It returns the new state and whether it changed.
func (p *Prober) Probe(ctx context.Context) (bool, bool) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	err := p.checker.Health(cctx)
	cancel()

	online := err == nil
	if err != nil {
		log.Debug("health check failed: %s\n", err.Error())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	changed := !p.known || p.online != online
	p.online = online
	p.known = true

	return online, changed
}

// Run probes immediately and then on every interval until ctx is done.
// Every change of state, including the first observed state, is sent on
// the returned channel. The channel is closed when Run returns.
func (p *Prober) Run(ctx context.Context) <-chan bool {
	ch := make(chan bool, 1)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			if online, changed := p.Probe(ctx); changed {
				select {
				case ch <- online:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return ch
}
