package domain

// ActionType enumerates the structured intents a role behavior can return
// from its night action. Informational actions (check, divine) never change
// game state during resolution.
type ActionType string

const (
	ActionSleep   ActionType = "sleep"   // no-op roles (villager at night)
	ActionWait    ActionType = "wait"    // no legal target or parse failure
	ActionKill    ActionType = "kill"    // werewolf kill vote
	ActionCheck   ActionType = "check"   // seer identity check
	ActionProtect ActionType = "protect" // guard protection
	ActionSave    ActionType = "save"    // witch heal of tonight's victim
	ActionPoison  ActionType = "poison"  // witch poison
	ActionShoot   ActionType = "shoot"   // hunter/wolfkiller standing revenge target
	ActionSwap    ActionType = "swap"    // magician redirect, voids the kill once
	ActionDivine  ActionType = "divine"  // medium learns yesterday's vote victim
)

// Action is the structured {action, target, result} triple produced from an
// agent's free-text reply. Target 0 means no target.
type Action struct {
	Type   ActionType `json:"action"`
	Target int        `json:"target,omitempty"`
	Result string     `json:"result,omitempty"`
}

// SleepAction is the inert action returned without consulting the agent.
func SleepAction() Action { return Action{Type: ActionSleep} }

// WaitAction carries a diagnostic explaining why no move was made.
func WaitAction(reason string) Action { return Action{Type: ActionWait, Result: reason} }
