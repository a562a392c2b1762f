package quota

import "fmt"

// Window is the kind of rate-limit window an action uses
type Window string

const (
	WindowHourly Window = "hourly"
	WindowDaily  Window = "daily"
)

// Policy is the limit for one action within its window
type Policy struct {
	Limit  int
	Window Window
}

// Action names enforced by the limiter
const (
	ActionUpload  = "upload"
	ActionComment = "comment"
	ActionLike    = "like"
	ActionFollow  = "follow"
	ActionShare   = "share"
	ActionFlag    = "flag"
)

// DefaultPolicies is the fixed policy table
var DefaultPolicies = map[string]Policy{
	ActionUpload:  {Limit: 5, Window: WindowHourly},
	ActionComment: {Limit: 20, Window: WindowHourly},
	ActionLike:    {Limit: 100, Window: WindowHourly},
	ActionFollow:  {Limit: 30, Window: WindowHourly},
	ActionShare:   {Limit: 50, Window: WindowHourly},
	ActionFlag:    {Limit: 10, Window: WindowDaily},
}

// ErrUnknownAction indicates a caller bug, not an enforcement failure, so it
// is never converted to a fail-open allow
type ErrUnknownAction struct {
	Action string
}

func (e *ErrUnknownAction) Error() string {
	return fmt.Sprintf("no rate limit policy for action %q", e.Action)
}
