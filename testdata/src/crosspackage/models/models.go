package models

// Shared is a reference-counted handle
type Shared[T any] struct {
	p *T
}

func Share[T any](v *T) Shared[T] {
	return Shared[T]{p: v}
}

type User struct {
	Name    string
	Account Shared[Account]
}

type Account struct {
	ID    int
	Owner Shared[User]
}
