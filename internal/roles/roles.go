// Package roles defines the platform role table and privilege sets.
package roles

import "strings"

// Role identifies a platform role as reported by the Auth API.
type Role string

// Platform roles.
const (
	Admin             Role = "ADMIN"
	GroupDirector     Role = "GD"
	DepartmentHead    Role = "DH"
	TeamLead          Role = "TL"
	StaffMember       Role = "SM"
	OfficerInCharge   Role = "OIC"
	JuniorFellow      Role = "JRF"
	SeniorFellow      Role = "SRF"
	ChiefEngineer     Role = "CE"
	Student           Role = "STUDENT"
)

// Set is a collection of roles used for privilege checks.
type Set map[Role]bool

// AdminOrHead covers roles allowed to manage users.
var AdminOrHead = Set{Admin: true, GroupDirector: true, DepartmentHead: true}

// HeadOnly covers roles allowed to create projects and manage members.
var HeadOnly = Set{GroupDirector: true, DepartmentHead: true}

// Parse normalizes a role string from the API or persisted storage.
// Unknown values are returned as-is (uppercased) so privilege checks
// simply fail closed.
func Parse(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// Contains reports whether the set allows the given role.
func (s Set) Contains(r Role) bool {
	return s[r]
}
