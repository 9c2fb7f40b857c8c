package domain

// User is a registered account together with its formatted task entries.
// Tasks is append-only.
type User struct {
	Username     string
	PasswordHash string
	Tasks        []string
}
