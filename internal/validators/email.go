package validators

import "regexp"

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// IsEmail validates the syntactic shape of an email address. Used for nested
// optional fields (gym contact email) that gin's binding tags do not reach.
func IsEmail(email string) bool {
	return emailPattern.MatchString(email)
}
