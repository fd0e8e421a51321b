package rbac

// Role constants (mirrors models roles, kept string-typed for claims)
const (
	RoleBrand   = "brand"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

// Permission constants
const (
	PermManageCampaign = "manage_campaign"
	PermInviteCreator  = "invite_creator"
	PermResolveCollab  = "resolve_collab"
	PermRequestPayout  = "request_payout"
	PermViewEarnings   = "view_earnings"
	PermSettlePayout   = "settle_payout"
)

// RolePermissions defines what each role can do.
var RolePermissions = map[string][]string{
	RoleBrand: {
		PermManageCampaign, PermInviteCreator,
	},
	RoleCreator: {
		PermResolveCollab, PermRequestPayout, PermViewEarnings,
	},
	RoleAdmin: {
		PermManageCampaign, PermInviteCreator, PermResolveCollab,
		PermRequestPayout, PermViewEarnings, PermSettlePayout,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// IsFinancialOperation checks if permission moves money (admin-gated
// in manual payout mode).
func IsFinancialOperation(permission string) bool {
	return permission == PermRequestPayout || permission == PermSettlePayout
}
