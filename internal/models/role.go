package models

// Role is the closed set of account roles. The zero value is invalid on
// purpose: a record must never carry an empty role.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// roleRank 角色层级，数字越小权限越高
var roleRank = map[Role]int{
	RoleOwner:   0,
	RoleAdmin:   1,
	RoleManager: 2,
	RoleUser:    3,
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// In reports whether r is a member of the allowed set.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// AtLeast reports whether r ranks at or above other in the hierarchy.
func (r Role) AtLeast(other Role) bool {
	rr, ok1 := roleRank[r]
	or, ok2 := roleRank[other]
	return ok1 && ok2 && rr <= or
}
