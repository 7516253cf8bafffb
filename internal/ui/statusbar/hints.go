package statusbar

import "github.com/riordanpawley/tasktable/internal/types"

// GetHints returns the keybinding hints for the given mode
func GetHints(mode types.Mode) string {
	switch mode {
	case types.ModeNormal:
		return "j/k: rows  h/l: columns  Enter: edit  Space: expand  /: search  f: filter  ?: help  q: quit"
	case types.ModeSearch:
		return "Type to search  Enter: confirm  Esc: clear"
	case types.ModeEdit:
		return "Enter: save  Esc: cancel"
	default:
		return ""
	}
}
