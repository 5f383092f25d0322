package domain

import "errors"

// ErrAuthentication signals that no valid identity was presented where one
// is mandatory. Distinct from ErrForbidden, where the caller is known but
// insufficiently privileged.
var ErrAuthentication = errors.New("authentication required")

// Action is the kind of operation being attempted on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ResourceKind identifies which collection a resource belongs to.
type ResourceKind string

const (
	ResourceUser    ResourceKind = "user"
	ResourceAgency  ResourceKind = "agency"
	ResourceListing ResourceKind = "listing"
	ResourceImage   ResourceKind = "image"
)

// Identity is the authenticated caller: user id plus role, resolved from a
// verified token. A nil *Identity means the caller is anonymous.
type Identity struct {
	UserID string
	Role   Role
}

// Resource describes the target of an action for authorization purposes.
// OwnerID is the owning agent id for listings and images (for an image, the
// parent listing's agent), resolved from the store by the caller — never
// taken from client input. TargetUserID is set when the resource is a user
// record.
type Resource struct {
	Kind         ResourceKind
	OwnerID      string
	TargetUserID string
}

// publicRead reports whether the action is an anonymous-safe catalog read.
func publicRead(action Action, kind ResourceKind) bool {
	if action != ActionRead && action != ActionList {
		return false
	}
	return kind == ResourceListing || kind == ResourceImage
}

// Authorize decides whether id may perform action on res. Rules are
// evaluated in order and the first match wins; no rule matching means deny.
// It is a pure function: ownership must already be resolved into res.
func Authorize(id *Identity, action Action, res Resource) error {
	// Anonymous callers may only browse the public catalog.
	if id == nil {
		if publicRead(action, res.Kind) {
			return nil
		}
		return ErrAuthentication
	}

	// Rule 1: admin does everything.
	if id.Role == RoleAdmin {
		return nil
	}

	switch res.Kind {
	case ResourceUser:
		// Rule 2: self-service on the caller's own record.
		if res.TargetUserID != "" && res.TargetUserID == id.UserID {
			if action == ActionRead || action == ActionUpdate {
				return nil
			}
		}

	case ResourceListing, ResourceImage:
		switch action {
		case ActionCreate:
			// Rule 3: agents publish; the owner field is forced to the
			// caller by the service layer.
			if id.Role == RoleAgent {
				return nil
			}
		case ActionUpdate, ActionDelete:
			// Rule 4: only the owning agent mutates.
			if id.Role == RoleAgent && res.OwnerID != "" && res.OwnerID == id.UserID {
				return nil
			}
		case ActionRead, ActionList:
			// Rule 6: public catalog.
			return nil
		}

	case ResourceAgency:
		// Rule 5: mutation is admin-only, already granted above.
		// Rule 6: any authenticated caller may browse the directory.
		if action == ActionRead || action == ActionList {
			return nil
		}
	}

	// Rule 7: default deny.
	return ErrForbidden
}
