// Package runtime wires config, logging, and the bounded event store into a
// single stow instance. It exposes Open/Close, a basic health check, and
// accessors for the instrumented store facade.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Config: cfg})
//	defer rt.Close()
//	// Health
//	_ = rt.CheckHealth(context.Background())
//	// Buffer an event
//	_ = rt.Store().Persist(store.Primary, []event.Event{event.New("app_launch", nil)})
package runtime
