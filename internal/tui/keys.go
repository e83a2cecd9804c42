package tui

import "github.com/gdamore/tcell/v2"

// Action is a named handler bound to one or more keys.
type Action struct {
	Name    string
	Handler func()
}

// KeyMap dispatches key events to actions. Special keys and runes are
// looked up separately.
type KeyMap struct {
	keys  map[tcell.Key]Action
	runes map[rune]Action
}

func NewKeyMap() *KeyMap {
	return &KeyMap{
		keys:  make(map[tcell.Key]Action),
		runes: make(map[rune]Action),
	}
}

// Bind registers action for keys and runes. A later binding for the same
// key wins.
func (km *KeyMap) Bind(action Action, keys []tcell.Key, runes []rune) {
	for _, k := range keys {
		km.keys[k] = action
	}
	for _, r := range runes {
		km.runes[r] = action
	}
}

// Handle runs the action bound to event and reports whether it was
// consumed.
func (km *KeyMap) Handle(event *tcell.EventKey) bool {
	if event.Key() != tcell.KeyRune {
		if a, ok := km.keys[event.Key()]; ok {
			a.Handler()
			return true
		}
		return false
	}
	if a, ok := km.runes[event.Rune()]; ok {
		a.Handler()
		return true
	}
	return false
}

// Lookup returns the action name bound to event, if any.
func (km *KeyMap) Lookup(event *tcell.EventKey) (string, bool) {
	if event.Key() != tcell.KeyRune {
		a, ok := km.keys[event.Key()]
		return a.Name, ok
	}
	a, ok := km.runes[event.Rune()]
	return a.Name, ok
}
