package outbox

import (
	"sync"
	"testing"
)

// TestRelayHealthState verifies the probe accessors and the worker's state
// updates can run from different goroutines, the way cmd/relay uses them
// (health server vs Start loop).
func TestRelayHealthState(t *testing.T) {
	relay := NewRelay(nil, "", nil)

	if !relay.IsHealthy() {
		t.Fatal("a fresh relay must report healthy")
	}
	if !relay.IsReady() {
		t.Fatal("a fresh relay must report ready")
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			relay.markProcessed()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			relay.markUnhealthy()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			relay.IsHealthy()
			relay.IsReady()
		}
	}()
	wg.Wait()

	relay.markUnhealthy()
	if relay.IsHealthy() {
		t.Error("expected unhealthy after a lost notification")
	}
	if relay.IsReady() {
		t.Error("an unhealthy relay must not report ready")
	}

	relay.markProcessed()
	if !relay.IsHealthy() || !relay.IsReady() {
		t.Error("expected healthy and ready after a processed event")
	}
}
