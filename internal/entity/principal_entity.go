package entity

// Roles carried by an authenticated principal.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
	RoleViewer = "viewer"
)

// Principal is the authenticated actor for one request: either a static
// global admin or a client-scoped user. ClientID is empty for admins.
type Principal struct {
	Email    string
	Name     string
	Role     string
	ClientID string
}

// IsAdmin gates client-management operations (create/delete/rename clients,
// manage client users, upload/delete files).
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccessClient is the tenant-scope check run before any client-scoped
// read or write touches storage.
func (p Principal) CanAccessClient(clientID string) bool {
	if p.IsAdmin() {
		return true
	}
	return p.ClientID != "" && p.ClientID == clientID
}
