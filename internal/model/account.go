package model

// Account is a `C` line of a user file.
type Account struct {
	Name string
}
