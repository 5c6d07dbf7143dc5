package domain

// Entity names a resource type governed by the permission table.
type Entity string

const (
	EntityProduct  Entity = "product"
	EntityMedia    Entity = "media"
	EntityCategory Entity = "category"
)

// Action is a mutation a caller asks to perform.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpload Action = "upload"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Caller is the identity the gateway attached to a request.
type Caller struct {
	ID    string
	Role  Role
	Email string
}

// Decision is the outcome of a permission check. Reason is set when forbidden.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow is the permitting decision.
var Allow = Decision{Allowed: true}

func forbid(reason string) Decision {
	return Decision{Reason: reason}
}

type checkKind int

const (
	roleCheck checkKind = iota
	ownerCheck
)

type check struct {
	kind   checkKind
	roles  []Role
	reason string
}

func (c check) passes(caller Caller, ownerID string) bool {
	if c.kind == ownerCheck {
		return caller.ID != "" && caller.ID == ownerID
	}
	for _, r := range c.roles {
		if caller.Role == r {
			return true
		}
	}
	return false
}

type ruleKey struct {
	entity    Entity
	action    Action
	ownerType OwnerType
}

const (
	productNotOwned   = "Unauthorized: You do not own this product"
	categoriesByAdmin = "Only admins can manage categories."
)

// Checks run in table order; the first failing check decides.
// An empty owner type matches any owner type.
var permissionTable = map[ruleKey][]check{
	{EntityProduct, ActionCreate, ""}: {
		{kind: roleCheck, roles: []Role{RoleSeller}, reason: "Only sellers can create products."},
	},
	{EntityProduct, ActionUpdate, ""}: {
		{kind: roleCheck, roles: []Role{RoleSeller}, reason: "Only sellers can update products."},
		{kind: ownerCheck, reason: productNotOwned},
	},
	{EntityProduct, ActionDelete, ""}: {
		{kind: roleCheck, roles: []Role{RoleSeller}, reason: "Only sellers can delete products."},
		{kind: ownerCheck, reason: productNotOwned},
	},
	{EntityCategory, ActionCreate, ""}: {
		{kind: roleCheck, roles: []Role{RoleAdmin}, reason: categoriesByAdmin},
	},
	{EntityCategory, ActionUpdate, ""}: {
		{kind: roleCheck, roles: []Role{RoleAdmin}, reason: categoriesByAdmin},
	},
	{EntityCategory, ActionDelete, ""}: {
		{kind: roleCheck, roles: []Role{RoleAdmin}, reason: categoriesByAdmin},
	},
	{EntityMedia, ActionUpload, OwnerUser}: {
		{kind: ownerCheck, reason: "You can only upload an avatar for yourself"},
		{kind: roleCheck, roles: []Role{RoleClient, RoleSeller}, reason: "Only Sellers and Clients can upload user avatars"},
	},
	{EntityMedia, ActionUpload, OwnerProduct}: {
		{kind: roleCheck, roles: []Role{RoleSeller}, reason: "Only Seller can upload product images"},
	},
	{EntityMedia, ActionUpdate, ""}: {
		{kind: roleCheck, roles: []Role{RoleSeller}, reason: "Only sellers can update images"},
		{kind: ownerCheck, reason: "You can only update your own media"},
	},
	{EntityMedia, ActionDelete, OwnerUser}: {
		{kind: ownerCheck, reason: "You can only delete your own avatar"},
		{kind: roleCheck, roles: []Role{RoleClient, RoleSeller}, reason: "Only Sellers or Clients can delete user avatars"},
	},
	{EntityMedia, ActionDelete, OwnerProduct}: {
		{kind: roleCheck, roles: []Role{RoleSeller}, reason: "Only sellers can delete product images"},
		{kind: ownerCheck, reason: "You can only delete your own product images"},
	},
}

func lookupChecks(entity Entity, action Action, ownerType OwnerType) ([]check, bool) {
	if checks, ok := permissionTable[ruleKey{entity, action, ownerType}]; ok {
		return checks, true
	}
	checks, ok := permissionTable[ruleKey{entity, action, ""}]
	return checks, ok
}

// Decide evaluates every check registered for the entity, action and owner
// type against the caller and the record's owner. Unknown combinations are
// forbidden.
func Decide(entity Entity, action Action, caller Caller, ownerID string, ownerType OwnerType) Decision {
	checks, ok := lookupChecks(entity, action, ownerType)
	if !ok {
		return forbid("Action not permitted")
	}
	for _, c := range checks {
		if !c.passes(caller, ownerID) {
			return forbid(c.reason)
		}
	}
	return Allow
}

// DecideRole evaluates only the role checks, for use before the record (and
// so its owner) has been loaded.
func DecideRole(entity Entity, action Action, caller Caller, ownerType OwnerType) Decision {
	checks, ok := lookupChecks(entity, action, ownerType)
	if !ok {
		return forbid("Action not permitted")
	}
	for _, c := range checks {
		if c.kind == roleCheck && !c.passes(caller, "") {
			return forbid(c.reason)
		}
	}
	return Allow
}
