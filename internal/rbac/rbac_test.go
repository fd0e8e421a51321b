package rbac

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role     string
		perm     string
		expected bool
	}{
		{RoleBrand, PermManageCampaign, true},
		{RoleBrand, PermInviteCreator, true},
		{RoleBrand, PermRequestPayout, false},
		{RoleBrand, PermResolveCollab, false},
		{RoleCreator, PermResolveCollab, true},
		{RoleCreator, PermRequestPayout, true},
		{RoleCreator, PermManageCampaign, false},
		{RoleCreator, PermSettlePayout, false},
		{RoleAdmin, PermSettlePayout, true},
		{RoleAdmin, PermManageCampaign, true},
		{"nonexistent", PermManageCampaign, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.perm, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.perm); got != tt.expected {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.expected)
			}
		})
	}
}

func TestSettlePayoutIsAdminOnly(t *testing.T) {
	for role := range RolePermissions {
		if role != RoleAdmin && HasPermission(role, PermSettlePayout) {
			t.Errorf("role %q must not settle payouts", role)
		}
	}
}

func TestIsFinancialOperation(t *testing.T) {
	if !IsFinancialOperation(PermRequestPayout) || !IsFinancialOperation(PermSettlePayout) {
		t.Error("payout permissions are financial")
	}
	if IsFinancialOperation(PermManageCampaign) {
		t.Error("campaign management is not financial")
	}
}
