package pointers

// Ref is the wrapper type named in .acyclic.yaml
type Ref[T any] struct {
	p *T
}

type Owner struct {
	pet *Pet
}

type Pet struct {
	owner Ref[Owner]
}

func (o *Owner) Adopt(p *Pet) {
	o.pet = p // want "circular reference detected: Owner -> Pet -> Owner"
	p.owner = Ref[Owner]{p: o}
}

// Shared is not configured here, so it does not own
type Shared[T any] struct {
	p *T
}

type Left struct {
	right Shared[Right]
}

type Right struct {
	left Shared[Left]
}

func Pair(l *Left, r *Right) {
	l.right = Shared[Right]{}
	r.left = Shared[Left]{}
}
