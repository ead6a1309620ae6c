package shell

import (
	"fmt"
	"strings"
)

// Action prefixes of start menu items.
const (
	ActionOpen = "open:"
	ActionLink = "link:"
)

// MenuItem is one row of the start menu.
type MenuItem struct {
	Label    string     `json:"label"`
	Action   string     `json:"action,omitempty"` // empty for headers
	Icon     string     `json:"icon,omitempty"`
	IsHeader bool       `json:"is_header,omitempty"`
	Submenu  []MenuItem `json:"submenu,omitempty"`
}

// IsParent reports whether the item groups a submenu.
func (m MenuItem) IsParent() bool {
	return len(m.Submenu) > 0
}

// StartMenuTitle heads the start menu.
const StartMenuTitle = "ThriveRemoteOS V5.0"

func openItem(label, icon, app string) MenuItem {
	return MenuItem{Label: label, Icon: icon, Action: ActionOpen + app}
}

func linkItem(label, icon, url string) MenuItem {
	return MenuItem{Label: label, Icon: icon, Action: ActionLink + url}
}

// StartMenu returns the start menu sections.
func StartMenu() []MenuItem {
	return []MenuItem{
		{Label: "System", Icon: "📊", IsHeader: true, Submenu: []MenuItem{
			openItem("Database Manager", "🗄️", "database"),
			openItem("System Settings", "⚙️", "settings"),
			openItem("Quantum Terminal", "💻", "terminal"),
		}},
		{Label: "Applications", Icon: "🎮", IsHeader: true, Submenu: []MenuItem{
			openItem("Virtual Pets Manager", "🎮", "pets"),
			openItem("Desktop Pets", "🐾", "desktop-pets"),
			openItem("Content Manager", "📁", "content"),
			openItem("Job Portal", "💼", "jobs"),
			openItem("Waitress Jobs Portal", "🍽️", "job-portal"),
			openItem("YouTube Music", "📺", "youtube"),
		}},
		{Label: "Tools & Games", Icon: "🔧", IsHeader: true, Submenu: []MenuItem{
			linkItem("Cosmic Pets Game", "🥚", "/virtual-pets-tool/"),
			linkItem("Cosmic Sheep Game", "🐑", "/virtual-sheep-pet/"),
			linkItem("Desktop Pets Game", "🐾", "/virtual-desktop-pets/"),
			linkItem("Job Hunting Portal", "🍽️", "/waitress-job-portal/"),
			linkItem("AI Apply Tool", "🤖", "https://aiapply.co/"),
			linkItem("Journey Planner", "🚗", "https://makemydrivefun.com/"),
		}},
	}
}

// ParseAction splits a menu action into its kind prefix and target.
func ParseAction(action string) (kind, target string, err error) {
	switch {
	case strings.HasPrefix(action, ActionOpen):
		return ActionOpen, strings.TrimPrefix(action, ActionOpen), nil
	case strings.HasPrefix(action, ActionLink):
		return ActionLink, strings.TrimPrefix(action, ActionLink), nil
	default:
		return "", "", fmt.Errorf("unknown menu action %q", action)
	}
}

// FindMenuItem walks the menu for the first item with action.
func FindMenuItem(items []MenuItem, action string) (MenuItem, bool) {
	for _, it := range items {
		if it.Action == action && action != "" {
			return it, true
		}
		if it.IsParent() {
			if found, ok := FindMenuItem(it.Submenu, action); ok {
				return found, true
			}
		}
	}
	return MenuItem{}, false
}
