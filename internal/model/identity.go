package model

// Identity is one line of the identity store.
type Identity struct {
	Login    string // 8 characters, unique across the store
	Password string // 6 characters
	Name     string
	Key      int // personal-file key value
}
