//go:build linux
// +build linux

package buildconstraint

// Conn keeps its session alive on linux
type Conn struct {
	session Shared[Session]
}

func (c *Conn) bind(s *Session) {
	c.session = Wrap(s) // want "circular reference detected: Conn -> Session -> Conn"
}
