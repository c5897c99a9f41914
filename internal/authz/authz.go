// Package authz evaluates role- and ownership-based permission rules
// for mutating operations.
//
// Rules form an ordered table evaluated top to bottom; the first rule
// that matches wins. Each rule is pure: it reads only the request and
// returns a decision, so every rule is independently testable.
package authz

import "github.com/tradepost/tradepost/internal/model"

// Action is a mutating operation being authorized.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	// ActionDelete is a plain delete; the engine decides whether it
	// lands as a hard or soft delete (see DeleteMode).
	ActionDelete Action = "delete"
	// ActionHardDelete is an explicit request to remove the row.
	// Only admins ever get this.
	ActionHardDelete Action = "hard_delete"
)

// ResourceKind identifies what is being mutated.
type ResourceKind string

const (
	KindAccount ResourceKind = "account"
	KindProduct ResourceKind = "product"
)

// DeleteMode says how an allowed delete must be executed.
// Admin deletes are hard, everyone else's are soft. This is a fixed
// policy, not a per-call option.
type DeleteMode string

const (
	DeleteNone DeleteMode = ""
	DeleteSoft DeleteMode = "soft"
	DeleteHard DeleteMode = "hard"
)

// Resource describes the target of a mutation.
type Resource struct {
	Kind ResourceKind
	// ID is the resource's own identifier. For accounts this is the
	// account id; ownership of an account means acting on yourself.
	ID string
	// OwnerID is the creator reference. Products are owned by their
	// creator.
	OwnerID string
	// Role is the target account's current role. Zero for products.
	Role model.Role
}

// Request is one authorization question.
type Request struct {
	ActorID   string
	ActorRole model.Role
	Action    Action
	Resource  Resource
	// NewRole is the role being assigned when creating an account or
	// present in an account update payload. Empty when the payload
	// does not touch the role field.
	NewRole model.Role
}

// roleChanged reports whether the request tries to write a role field.
// Writing the same value still counts: rule order treats any attempt
// to touch your own role as a denial.
func (r *Request) roleChanged() bool {
	return r.Resource.Kind == KindAccount && r.NewRole != ""
}

// Decision is the outcome of evaluating the rule table.
type Decision struct {
	Allowed bool
	// DeleteMode is set for allowed delete actions.
	DeleteMode DeleteMode
	// Rule names the rule that matched, for logging.
	Rule string
}

func allow(rule string, mode DeleteMode) Decision {
	return Decision{Allowed: true, DeleteMode: mode, Rule: rule}
}

func deny(rule string) Decision {
	return Decision{Allowed: false, Rule: rule}
}

// rule is one entry of the ordered table. match returns a decision and
// true when the rule applies to the request.
type rule struct {
	name  string
	match func(Request) (Decision, bool)
}

// deleteModeFor maps an allowed delete action to its execution mode.
func deleteModeFor(action Action, actorIsAdmin bool) DeleteMode {
	if action != ActionDelete && action != ActionHardDelete {
		return DeleteNone
	}
	if actorIsAdmin {
		return DeleteHard
	}
	return DeleteSoft
}

// rules is the ordered permission table. Precedence matters: guards sit
// above the grants they constrain.
var rules = []rule{
	{
		name: "admin",
		match: func(r Request) (Decision, bool) {
			if r.ActorRole != model.RoleAdmin {
				return Decision{}, false
			}
			return allow("admin", deleteModeFor(r.Action, true)), true
		},
	},
	{
		// Only admins may mint admins, whether by creating an account
		// with the admin role or promoting an existing one.
		name: "promotion-guard",
		match: func(r Request) (Decision, bool) {
			if r.Resource.Kind != KindAccount || r.NewRole != model.RoleAdmin {
				return Decision{}, false
			}
			if r.Action != ActionCreate && r.Action != ActionUpdate {
				return Decision{}, false
			}
			return deny("promotion-guard"), true
		},
	},
	{
		// Accounts that currently hold the admin role are untouchable
		// for non-admin actors.
		name: "protected-target-guard",
		match: func(r Request) (Decision, bool) {
			if r.Resource.Kind != KindAccount || r.Resource.Role != model.RoleAdmin {
				return Decision{}, false
			}
			switch r.Action {
			case ActionUpdate, ActionDelete, ActionHardDelete:
				return deny("protected-target-guard"), true
			}
			return Decision{}, false
		},
	},
	{
		// Nobody below admin may touch their own role field, not even
		// to write the value it already holds.
		name: "self-role-guard",
		match: func(r Request) (Decision, bool) {
			if r.Resource.Kind != KindAccount || r.Action != ActionUpdate {
				return Decision{}, false
			}
			if r.ActorID != r.Resource.ID || !r.roleChanged() {
				return Decision{}, false
			}
			return deny("self-role-guard"), true
		},
	},
	{
		name: "moderator",
		match: func(r Request) (Decision, bool) {
			if r.ActorRole != model.RoleModerator {
				return Decision{}, false
			}
			switch r.Action {
			case ActionCreate, ActionUpdate, ActionDelete:
				return allow("moderator", deleteModeFor(r.Action, false)), true
			}
			// Hard deletes fall through to the default denial.
			return Decision{}, false
		},
	},
	{
		name: "owner",
		match: func(r Request) (Decision, bool) {
			switch r.Resource.Kind {
			case KindProduct:
				if r.ActorID != r.Resource.OwnerID {
					return Decision{}, false
				}
				switch r.Action {
				case ActionUpdate, ActionDelete:
					return allow("owner", deleteModeFor(r.Action, false)), true
				}
			case KindAccount:
				// Owning an account means being that account.
				if r.ActorID != r.Resource.ID {
					return Decision{}, false
				}
				if r.Action == ActionUpdate {
					return allow("owner", DeleteNone), true
				}
			}
			return Decision{}, false
		},
	},
}

// Evaluate runs the request through the rule table and returns the
// first matching decision. No rule matching means denial.
func Evaluate(req Request) Decision {
	for _, rl := range rules {
		if d, ok := rl.match(req); ok {
			return d
		}
	}
	return deny("default-deny")
}
