package domain

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
)

// User is the authenticated caller as asserted by the auth service token.
// The zero value is an anonymous caller.
type User struct {
	ID    string   `json:"id"`
	Roles []string `json:"roles"`
}

func (u User) Authenticated() bool {
	return u.ID != ""
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u User) IsAdmin() bool    { return u.HasRole(RoleAdmin) }
func (u User) IsOwner() bool    { return u.HasRole(RoleOwner) || u.IsAdmin() }
func (u User) IsCustomer() bool { return u.HasRole(RoleCustomer) }
