//go:build debug
// +build debug

package buildconstraint

type Tracer struct {
	self Shared[Tracer]
}

func (t *Tracer) loop() {
	t.self = Wrap(t) // want "circular reference detected: Tracer -> Tracer"
}
