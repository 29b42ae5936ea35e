package secgate

import "github.com/luminara-app/backend/ident"

// Actions checked through the gateway. Handlers pass these instead of raw
// strings so a typo cannot silently widen guest access.
const (
	ActionReadPublic    = "read_public"
	ActionSubmitProblem = "submit_problem"
)

var guestAllowedActions = map[string]bool{
	ActionReadPublic:    true,
	ActionSubmitProblem: true,
}

// CheckPermission decides whether ownerID may perform action. Empty or
// malformed owner identifiers are denied outright. The guest owner may only
// read public data and submit problems; any other valid owner passes.
func (g *Gateway) CheckPermission(ownerID string, action string) error {
	if ownerID == "" || !ident.IsValid(ownerID) {
		return newErrPermissionDenied(action)
	}
	if ownerID == ident.GuestOwnerID && !guestAllowedActions[action] {
		return newErrPermissionDenied(action)
	}
	return nil
}
