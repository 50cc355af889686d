//go:build windows
// +build windows

package buildconstraint

// Conn only holds a handle on windows
type Conn struct {
	handle uintptr
}

func (c *Conn) bind(s *Session) {
	c.handle = uintptr(s.id)
}
