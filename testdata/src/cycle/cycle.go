package cycle

// Shared is a reference-counted handle
type Shared[T any] struct {
	ptr  *T
	refs *int
}

func NewShared[T any](v *T) Shared[T] {
	n := 1
	return Shared[T]{ptr: v, refs: &n}
}

func (s Shared[T]) Get() *T {
	return s.ptr
}

type Parent struct {
	name  string
	child Shared[Child]
}

type Child struct {
	parent Shared[Parent]
}

func (p *Parent) Adopt(c *Child) {
	p.child = NewShared(c)
	c.Attach(p)
}

func (c *Child) Attach(p *Parent) {
	c.parent = NewShared(p) // want "circular reference detected: Child -> Parent -> Child"
}

// Node refers to itself through a shared handle
type Node struct {
	value int
	next  Shared[Node]
}

func (n *Node) Append(m *Node) {
	n.next = NewShared(m) // want "circular reference detected: Node -> Node"
}

// Folder holds its children in a slice of shared handles
type Folder struct {
	name     string
	children []Shared[Folder]
}

func (f *Folder) Add(c *Folder) {
	f.children = append(f.children, NewShared(c)) // want "circular reference detected: Folder -> Folder"
}

// Doc and Page only meet in a composite literal and one assignment
type Doc struct {
	page Shared[Page]
}

type Page struct {
	doc Shared[Doc]
}

func Bind(d *Doc) *Page {
	pg := &Page{doc: NewShared(d)}
	d.page = NewShared(pg) // want "circular reference detected: Doc -> Page -> Doc"
	return pg
}

// Diamond: Root owns Left and Right, both share Leaf. No cycle.
type Root struct {
	left  Shared[Left]
	right Shared[Right]
}

type Left struct {
	leaf Shared[Leaf]
}

type Right struct {
	leaf Shared[Leaf]
}

type Leaf struct {
	value int
}

func Build() *Root {
	leaf := NewShared(&Leaf{value: 1})
	return &Root{
		left:  NewShared(&Left{leaf: leaf}),
		right: NewShared(&Right{leaf: leaf}),
	}
}

// Tree points back to Branch through a plain pointer, which does not own
type Tree struct {
	root *Branch
}

type Branch struct {
	tree Shared[Tree]
}

func (b *Branch) Plant(t *Tree) {
	t.root = b
	b.tree = NewShared(t)
}

// Ghost is never touched, so its field forms no reference
type Ghost struct {
	self Shared[Ghost]
}
