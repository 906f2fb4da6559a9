package review

import (
	"fmt"
	"strings"

	"pareto_backend/internal/models"
)

// Action is what a detail-view keyboard shortcut does
type Action string

const (
	ActionPrev       Action = "prev"
	ActionNext       Action = "next"
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionPending    Action = "pending"
	ActionToggleFlag Action = "toggle_flag"
	ActionClose      Action = "close"
)

var shortcuts = map[string]Action{
	"arrowleft":  ActionPrev,
	"left":       ActionPrev,
	"←":          ActionPrev,
	"arrowright": ActionNext,
	"right":      ActionNext,
	"→":          ActionNext,
	"a":          ActionApprove,
	"r":          ActionReject,
	"p":          ActionPending,
	"f":          ActionToggleFlag,
	"escape":     ActionClose,
	"esc":        ActionClose,
}

// ParseShortcut maps a key name (as sent by KeyboardEvent.key) to its action.
func ParseShortcut(key string) (Action, error) {
	action, ok := shortcuts[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return "", fmt.Errorf("unknown shortcut %q", key)
	}
	return action, nil
}

// Status is the status an action sets, if any
func (a Action) Status() (models.ApplicationStatus, bool) {
	switch a {
	case ActionApprove:
		return models.ApplicationStatusApproved, true
	case ActionReject:
		return models.ApplicationStatusRejected, true
	case ActionPending:
		return models.ApplicationStatusPending, true
	}
	return "", false
}
