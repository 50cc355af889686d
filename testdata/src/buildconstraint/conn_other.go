//go:build !linux && !windows
// +build !linux,!windows

package buildconstraint

type Conn struct {
	fd int
}

func (c *Conn) bind(s *Session) {
	c.fd = s.id
}
