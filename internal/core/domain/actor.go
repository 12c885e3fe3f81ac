package domain

// Actor is the authenticated caller of a wallet or workflow operation.
type Actor struct {
	UserID       string `json:"userID"`
	TenantID     string `json:"tenantID"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
	RoleLevel    int    `json:"roleLevel"`
	Department   string `json:"department"`
	IsSystem     bool   `json:"isSystem"`
}

// SystemActorID is recorded as the actor of operations run by the payroll runner.
const SystemActorID = "system"

// SystemActor returns the actor used by machine callers such as the payroll runner.
func SystemActor(tenantID string) Actor {
	return Actor{UserID: SystemActorID, TenantID: tenantID, IsSystem: true}
}
