// Package telemetry exposes Prometheus metrics and OpenTelemetry spans for
// the binding runtime.
//
// A Recorder counts what the compiler wires (bindings, event listeners,
// skipped directives), every effective data write with its subscriber
// fan-out, and events dispatched by the live server:
//
//	rec := telemetry.NewRecorder(telemetry.WithRegistry(reg))
//	vm, err := bamboo.New(bamboo.Options{Telemetry: rec, ...})
//
// Spans use the global tracer provider. Configure one with
// otel.SetTracerProvider before loading sources or serving.
package telemetry
