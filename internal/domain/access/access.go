package access

// Role is the closed set of actor roles known to the system.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleLibrarian     Role = "librarian"
	RoleMember        Role = "member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleLibrarian, RoleMember:
		return true
	}
	return false
}

// Staff is true for roles that operate the admin console.
func (r Role) Staff() bool {
	return r == RoleAdministrator || r == RoleLibrarian
}

// ActorType distinguishes staff users from library members in tokens.
type ActorType string

const (
	ActorUser   ActorType = "user"
	ActorClient ActorType = "client"
)

// Actor is the authenticated principal for one request. It is produced once
// by the authentication middleware and threaded explicitly into handlers —
// never stored as ambient state.
type Actor struct {
	ID        uint64
	PublicID  string
	Type      ActorType
	Role      Role
	LibraryID uint64
}

// Action names every capability the API exposes.
type Action string

const (
	ActionCatalogRead    Action = "catalog.read"
	ActionCatalogWrite   Action = "catalog.write"
	ActionClientRead     Action = "client.read"
	ActionClientWrite    Action = "client.write"
	ActionLoanRead       Action = "loan.read"
	ActionLoanWrite      Action = "loan.write"
	ActionLoanDelete     Action = "loan.delete"
	ActionPolicyRead     Action = "policy.read"
	ActionPolicyWrite    Action = "policy.write"
	ActionEmailAuthorize Action = "email.authorize"
	ActionDashboardRead  Action = "dashboard.read"
	ActionOwnLoansRead   Action = "loan.read_own"
)

var capabilities = map[Role]map[Action]bool{
	RoleAdministrator: {
		ActionCatalogRead: true, ActionCatalogWrite: true,
		ActionClientRead: true, ActionClientWrite: true,
		ActionLoanRead: true, ActionLoanWrite: true, ActionLoanDelete: true,
		ActionPolicyRead: true, ActionPolicyWrite: true,
		ActionEmailAuthorize: true,
		ActionDashboardRead:  true,
	},
	RoleLibrarian: {
		ActionCatalogRead: true, ActionCatalogWrite: true,
		ActionClientRead: true, ActionClientWrite: true,
		ActionLoanRead: true, ActionLoanWrite: true,
		ActionPolicyRead:    true,
		ActionDashboardRead: true,
	},
	RoleMember: {
		ActionCatalogRead:  true,
		ActionOwnLoansRead: true,
	},
}

// Authorize is the single capability check used by every handler.
func Authorize(actor Actor, action Action) bool {
	return capabilities[actor.Role][action]
}
