package auth

// Decision is the outcome of evaluating a protected page against the
// current AuthState.
type Decision int

const (
	// DecisionPending means the first auth resolution has not completed;
	// render nothing yet. Deciding before resolution is exactly the bug
	// class the guard exists to prevent (bouncing an authenticated user to
	// the login page while their role is still loading).
	DecisionPending Decision = iota
	// DecisionRender allows the page to render.
	DecisionRender
	// DecisionRedirectLogin sends an unauthenticated visitor to the login page.
	DecisionRedirectLogin
	// DecisionRedirectFallback sends an authenticated but unauthorized user
	// to the fallback target (the public home page).
	DecisionRedirectFallback
)

// String returns a short name for logging and metrics tags.
func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionRender:
		return "render"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectFallback:
		return "redirect_fallback"
	}
	return "unknown"
}

// Decide evaluates the access guard for one protected page.
//
// An empty allow list means any authenticated session is sufficient; it is
// never conflated with "no one allowed". A session whose role is
// RoleUnassigned after resolution is simply unauthorized for role-gated
// pages, not stuck pending.
func Decide(state AuthState, allow []Role) Decision {
	if state.Resolving {
		return DecisionPending
	}
	if state.Session == nil {
		return DecisionRedirectLogin
	}
	if len(allow) == 0 {
		return DecisionRender
	}
	for _, r := range allow {
		if state.Role == r {
			return DecisionRender
		}
	}
	return DecisionRedirectFallback
}
