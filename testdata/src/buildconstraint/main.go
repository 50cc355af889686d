package buildconstraint

type Shared[T any] struct {
	p *T
}

func Wrap[T any](v *T) Shared[T] {
	return Shared[T]{p: v}
}

type Session struct {
	id   int
	conn Shared[Conn]
}

func (s *Session) Open(c *Conn) {
	s.conn = Wrap(c)
	c.bind(s)
}
