// Package resource implements the memory watcher and persistence governance.
//
// The Controller provides three things:
//
//   - Memory pressure: classify the serialized store size against a ceiling
//   - Persistence slot: a single-writer semaphore so snapshots never interleave
//   - IO: an optional token bucket for throttling snapshot writes
//
// # Memory Pressure
//
// Evaluate is called by the store after every mutation with the exact
// serialized size of the store:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 25 << 20, // 25 MiB
//	})
//
//	switch v := rc.Evaluate(size); v.Level {
//	case resource.PressureWarn:
//	    // log only
//	case resource.PressureCritical:
//	    // persist, then stop
//	}
//
// The thresholds default to 95% (warn) and 99% (critical). The Controller only
// classifies; what happens at critical pressure is decided by the caller.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully and behave as if the default
// ceiling were configured.
package resource
