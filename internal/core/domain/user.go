package domain

// User is the identity supplied by the external authentication collaborator.
type User struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}
