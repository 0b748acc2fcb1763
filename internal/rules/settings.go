package rules

import "strings"

type Settings struct {
	// Disabled holds upper-cased rule IDs that are skipped.
	Disabled map[string]bool
}

func DefaultSettings() Settings {
	return Settings{Disabled: map[string]bool{}}
}

// NewSettings builds settings from a list of rule IDs to disable.
func NewSettings(disabled []string) Settings {
	s := DefaultSettings()
	for _, id := range disabled {
		if id = normID(id); id != "" {
			s.Disabled[id] = true
		}
	}
	return s
}

func (s Settings) IsDisabled(id string) bool {
	return s.Disabled[normID(id)]
}

// DisabledIDs lists disabled rule IDs that name a registered rule.
func (s Settings) DisabledIDs() []string {
	var out []string
	for _, r := range List() {
		if s.IsDisabled(string(r.ID)) {
			out = append(out, string(r.ID))
		}
	}
	return out
}

func normID(id string) string { return strings.ToUpper(strings.TrimSpace(id)) }
