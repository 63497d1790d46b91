package authmethod

import "github.com/dmitrymomot/oauthkit/pkg/statemachine"

// Lifecycle states. RoutesInstalled is the only state that outlives a request.
const (
	StateConfiguring        statemachine.State = "configuring"
	StateRoutesInstalled    statemachine.State = "routes_installed"
	StatePending            statemachine.State = "pending"
	StateRedirectIssued     statemachine.State = "redirect_issued"
	StateCallbackReceived   statemachine.State = "callback_received"
	StateIdentityNormalized statemachine.State = "identity_normalized"
	StateDecided            statemachine.State = "decided"
	StateTokenIssued        statemachine.State = "token_issued"
	StateRejected           statemachine.State = "rejected"
)

const (
	EventInstall   statemachine.Event = "install"
	EventRedirect  statemachine.Event = "redirect"
	EventCallback  statemachine.Event = "callback"
	EventNormalize statemachine.Event = "normalize"
	EventDecide    statemachine.Event = "decide"
	EventIssue     statemachine.Event = "issue"
	EventReject    statemachine.Event = "reject"
)

var installTransitions = []statemachine.Transition{
	{From: StateConfiguring, Event: EventInstall, To: StateRoutesInstalled},
}

var loginTransitions = []statemachine.Transition{
	{From: StatePending, Event: EventRedirect, To: StateRedirectIssued},
	{From: StatePending, Event: EventReject, To: StateRejected},
}

var callbackTransitions = []statemachine.Transition{
	{From: StatePending, Event: EventCallback, To: StateCallbackReceived},
	{From: StateCallbackReceived, Event: EventNormalize, To: StateIdentityNormalized},
	{From: StateIdentityNormalized, Event: EventDecide, To: StateDecided},
	{From: StateDecided, Event: EventIssue, To: StateTokenIssued},

	{From: StatePending, Event: EventReject, To: StateRejected},
	{From: StateCallbackReceived, Event: EventReject, To: StateRejected},
	{From: StateIdentityNormalized, Event: EventReject, To: StateRejected},
	{From: StateDecided, Event: EventReject, To: StateRejected},
}
