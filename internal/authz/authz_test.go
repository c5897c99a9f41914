package authz

import (
	"testing"

	"github.com/tradepost/tradepost/internal/model"
)

func TestEvaluateAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      Request
		wantMode DeleteMode
	}{
		{
			name: "update any account",
			req: Request{
				ActorID:   "admin-1",
				ActorRole: model.RoleAdmin,
				Action:    ActionUpdate,
				Resource:  Resource{Kind: KindAccount, ID: "user-1", Role: model.RoleUser},
			},
			wantMode: DeleteNone,
		},
		{
			name: "delete lands hard",
			req: Request{
				ActorID:   "admin-1",
				ActorRole: model.RoleAdmin,
				Action:    ActionDelete,
				Resource:  Resource{Kind: KindAccount, ID: "user-1", Role: model.RoleUser},
			},
			wantMode: DeleteHard,
		},
		{
			name: "explicit hard delete",
			req: Request{
				ActorID:   "admin-1",
				ActorRole: model.RoleAdmin,
				Action:    ActionHardDelete,
				Resource:  Resource{Kind: KindProduct, ID: "prod-1", OwnerID: "someone"},
			},
			wantMode: DeleteHard,
		},
		{
			name: "promote another account to admin",
			req: Request{
				ActorID:   "admin-1",
				ActorRole: model.RoleAdmin,
				Action:    ActionUpdate,
				Resource:  Resource{Kind: KindAccount, ID: "user-1", Role: model.RoleUser},
				NewRole:   model.RoleAdmin,
			},
			wantMode: DeleteNone,
		},
		{
			name: "touch another admin",
			req: Request{
				ActorID:   "admin-1",
				ActorRole: model.RoleAdmin,
				Action:    ActionDelete,
				Resource:  Resource{Kind: KindAccount, ID: "admin-2", Role: model.RoleAdmin},
			},
			wantMode: DeleteHard,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := Evaluate(tt.req)
			if !d.Allowed {
				t.Fatalf("expected allow, got deny by rule %q", d.Rule)
			}
			if d.Rule != "admin" {
				t.Errorf("rule = %q, want %q", d.Rule, "admin")
			}
			if d.DeleteMode != tt.wantMode {
				t.Errorf("delete mode = %q, want %q", d.DeleteMode, tt.wantMode)
			}
		})
	}
}

func TestEvaluateModerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      Request
		wantOK   bool
		wantRule string
		wantMode DeleteMode
	}{
		{
			name: "update plain user account",
			req: Request{
				ActorID:   "mod-1",
				ActorRole: model.RoleModerator,
				Action:    ActionUpdate,
				Resource:  Resource{Kind: KindAccount, ID: "user-1", Role: model.RoleUser},
			},
			wantOK:   true,
			wantRule: "moderator",
		},
		{
			name: "delete lands soft",
			req: Request{
				ActorID:   "mod-1",
				ActorRole: model.RoleModerator,
				Action:    ActionDelete,
				Resource:  Resource{Kind: KindAccount, ID: "user-1", Role: model.RoleUser},
			},
			wantOK:   true,
			wantRule: "moderator",
			wantMode: DeleteSoft,
		},
		{
			name: "delete someone else's product lands soft",
			req: Request{
				ActorID:   "mod-1",
				ActorRole: model.RoleModerator,
				Action:    ActionDelete,
				Resource:  Resource{Kind: KindProduct, ID: "prod-1", OwnerID: "user-1"},
			},
			wantOK:   true,
			wantRule: "moderator",
			wantMode: DeleteSoft,
		},
		{
			name: "hard delete is denied",
			req: Request{
				ActorID:   "mod-1",
				ActorRole: model.RoleModerator,
				Action:    ActionHardDelete,
				Resource:  Resource{Kind: KindProduct, ID: "prod-1", OwnerID: "user-1"},
			},
			wantOK:   false,
			wantRule: "default-deny",
		},
		{
			name: "update admin account is denied",
			req: Request{
				ActorID:   "mod-1",
				ActorRole: model.RoleModerator,
				Action:    ActionUpdate,
				Resource:  Resource{Kind: KindAccount, ID: "admin-1", Role: model.RoleAdmin},
			},
			wantOK:   false,
			wantRule: "protected-target-guard",
		},
		{
			name: "promote user to admin is denied",
			req: Request{
				ActorID:   "mod-1",
				ActorRole: model.RoleModerator,
				Action:    ActionUpdate,
				Resource:  Resource{Kind: KindAccount, ID: "user-1", Role: model.RoleUser},
				NewRole:   model.RoleAdmin,
			},
			wantOK:   false,
			wantRule: "promotion-guard",
		},
		{
			name: "create account with admin role is denied",
			req: Request{
				ActorID:   "mod-1",
				ActorRole: model.RoleModerator,
				Action:    ActionCreate,
				Resource:  Resource{Kind: KindAccount},
				NewRole:   model.RoleAdmin,
			},
			wantOK:   false,
			wantRule: "promotion-guard",
		},
		{
			name: "own role change is denied even with same value",
			req: Request{
				ActorID:   "mod-1",
				ActorRole: model.RoleModerator,
				Action:    ActionUpdate,
				Resource:  Resource{Kind: KindAccount, ID: "mod-1", Role: model.RoleModerator},
				NewRole:   model.RoleModerator,
			},
			wantOK:   false,
			wantRule: "self-role-guard",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := Evaluate(tt.req)
			if d.Allowed != tt.wantOK {
				t.Fatalf("allowed = %v, want %v (rule %q)", d.Allowed, tt.wantOK, d.Rule)
			}
			if d.Rule != tt.wantRule {
				t.Errorf("rule = %q, want %q", d.Rule, tt.wantRule)
			}
			if d.DeleteMode != tt.wantMode {
				t.Errorf("delete mode = %q, want %q", d.DeleteMode, tt.wantMode)
			}
		})
	}
}

func TestEvaluateOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      Request
		wantOK   bool
		wantRule string
		wantMode DeleteMode
	}{
		{
			name: "update own product",
			req: Request{
				ActorID:   "user-1",
				ActorRole: model.RoleUser,
				Action:    ActionUpdate,
				Resource:  Resource{Kind: KindProduct, ID: "prod-1", OwnerID: "user-1"},
			},
			wantOK:   true,
			wantRule: "owner",
		},
		{
			name: "delete own product lands soft",
			req: Request{
				ActorID:   "user-1",
				ActorRole: model.RoleUser,
				Action:    ActionDelete,
				Resource:  Resource{Kind: KindProduct, ID: "prod-1", OwnerID: "user-1"},
			},
			wantOK:   true,
			wantRule: "owner",
			wantMode: DeleteSoft,
		},
		{
			name: "update someone else's product is denied",
			req: Request{
				ActorID:   "user-1",
				ActorRole: model.RoleUser,
				Action:    ActionUpdate,
				Resource:  Resource{Kind: KindProduct, ID: "prod-1", OwnerID: "user-2"},
			},
			wantOK:   false,
			wantRule: "default-deny",
		},
		{
			name: "update own account non-role fields",
			req: Request{
				ActorID:   "user-1",
				ActorRole: model.RoleUser,
				Action:    ActionUpdate,
				Resource:  Resource{Kind: KindAccount, ID: "user-1", Role: model.RoleUser},
			},
			wantOK:   true,
			wantRule: "owner",
		},
		{
			name: "update own role is denied",
			req: Request{
				ActorID:   "user-1",
				ActorRole: model.RoleUser,
				Action:    ActionUpdate,
				Resource:  Resource{Kind: KindAccount, ID: "user-1", Role: model.RoleUser},
				NewRole:   model.RoleModerator,
			},
			wantOK:   false,
			wantRule: "self-role-guard",
		},
		{
			name: "update another account is denied",
			req: Request{
				ActorID:   "user-1",
				ActorRole: model.RoleUser,
				Action:    ActionUpdate,
				Resource:  Resource{Kind: KindAccount, ID: "user-2", Role: model.RoleUser},
			},
			wantOK:   false,
			wantRule: "default-deny",
		},
		{
			name: "delete own account is denied",
			req: Request{
				ActorID:   "user-1",
				ActorRole: model.RoleUser,
				Action:    ActionDelete,
				Resource:  Resource{Kind: KindAccount, ID: "user-1", Role: model.RoleUser},
			},
			wantOK:   false,
			wantRule: "default-deny",
		},
		{
			name: "hard delete own product is denied",
			req: Request{
				ActorID:   "user-1",
				ActorRole: model.RoleUser,
				Action:    ActionHardDelete,
				Resource:  Resource{Kind: KindProduct, ID: "prod-1", OwnerID: "user-1"},
			},
			wantOK:   false,
			wantRule: "default-deny",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := Evaluate(tt.req)
			if d.Allowed != tt.wantOK {
				t.Fatalf("allowed = %v, want %v (rule %q)", d.Allowed, tt.wantOK, d.Rule)
			}
			if d.Rule != tt.wantRule {
				t.Errorf("rule = %q, want %q", d.Rule, tt.wantRule)
			}
			if d.DeleteMode != tt.wantMode {
				t.Errorf("delete mode = %q, want %q", d.DeleteMode, tt.wantMode)
			}
		})
	}
}
