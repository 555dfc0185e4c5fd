package inject

import "strings"

// Classification routes a request to an ordering of strategies.
type Classification int

const (
	// Standard targets are regular text fields.
	Standard Classification = iota
	// TerminalLike targets interpret a newline as "execute" and report
	// success for accessibility writes they never apply.
	TerminalLike
)

func (c Classification) String() string {
	switch c {
	case TerminalLike:
		return "terminal"
	default:
		return "standard"
	}
}

// TerminalBundleIDs lists bundle identifiers of known terminal emulators.
var TerminalBundleIDs = []string{
	"com.apple.Terminal",
	"com.googlecode.iterm2",
	"io.alacritty",
	"org.alacritty",
	"net.kovidgoyal.kitty",
	"com.github.wez.wezterm",
	"dev.warp.Warp-Stable",
	"co.zeit.hyper",
	"com.mitchellh.ghostty",
	"org.tabby",
}

// TerminalNames lists product names matched as case-sensitive substrings of
// the frontmost application's display name.
var TerminalNames = []string{
	"Terminal",
	"iTerm",
	"Alacritty",
	"kitty",
	"WezTerm",
	"Warp",
	"Hyper",
	"Ghostty",
	"Tabby",
}

// Classify decides whether app is terminal-like. extraIDs and extraNames
// extend the built-in lists.
func Classify(app App, extraIDs, extraNames []string) Classification {
	if app.BundleID != "" {
		for _, ids := range [][]string{TerminalBundleIDs, extraIDs} {
			for _, id := range ids {
				if app.BundleID == id {
					return TerminalLike
				}
			}
		}
	}
	if app.Name != "" {
		for _, names := range [][]string{TerminalNames, extraNames} {
			for _, name := range names {
				if name != "" && strings.Contains(app.Name, name) {
					return TerminalLike
				}
			}
		}
	}
	return Standard
}
