package inject

import (
	"context"
	"log/slog"
	"time"

	"github.com/rivo/uniseg"
)

// Strategy is one mechanism for delivering text to the focused target.
type Strategy interface {
	Name() string
	// Attempt reports whether the text was (as far as the strategy can tell)
	// delivered. It is called at most once per request.
	Attempt(text string) bool
}

// Strategy names, as reported in Outcome.Strategy and in logs.
const (
	StrategyAccessibility = "accessibility"
	StrategyTyping        = "typing"
	StrategyClipboard     = "clipboard"
)

// pasteScript asks System Events to press Cmd+V in the active application.
const pasteScript = `tell application "System Events" to keystroke "v" using command down`

// accessibilityStrategy writes the focused element's text attributes. It is
// atomic and honours the caret and selection, so it goes first for standard targets.
type accessibilityStrategy struct {
	ax Accessibility
}

func (s *accessibilityStrategy) Name() string { return StrategyAccessibility }

func (s *accessibilityStrategy) Attempt(text string) bool {
	if s.ax == nil {
		return false
	}
	el, err := s.ax.FocusedElement()
	if err != nil || el == nil {
		slog.Debug("[inject] no focused element", "error", err)
		return false
	}
	defer el.Release()

	err = s.ax.SetAttribute(el, AttrSelectedText, text)
	if err == nil {
		return true
	}
	slog.Debug("[inject] set selected text failed", "error", err)

	value, err := s.ax.Attribute(el, AttrValue)
	if err != nil {
		slog.Debug("[inject] read value failed", "error", err)
		return false
	}
	if err := s.ax.SetAttribute(el, AttrValue, value+text); err != nil {
		slog.Debug("[inject] set value failed", "error", err)
		return false
	}
	return true
}

// typingStrategy posts one Unicode key-down/key-up pair per grapheme cluster.
type typingStrategy struct {
	input SyntheticInput
	delay time.Duration
	sleep func(time.Duration)
}

func (s *typingStrategy) Name() string { return StrategyTyping }

func (s *typingStrategy) Attempt(text string) bool {
	if s.input == nil || text == "" {
		return false
	}

	delivered, failed := 0, 0
	g := uniseg.NewGraphemes(text)
	first := true
	for g.Next() {
		if !first && s.delay > 0 {
			s.sleep(s.delay)
		}
		first = false

		cluster := g.Str()
		if err := s.input.PostUnicode(cluster, true); err != nil {
			failed++
			slog.Debug("[inject] key down failed", "cluster", cluster, "error", err)
			continue
		}
		// The key-up carries no payload that matters to the target; a failure
		// here does not undo the character.
		if err := s.input.PostUnicode(cluster, false); err != nil {
			slog.Debug("[inject] key up failed", "cluster", cluster, "error", err)
		}
		delivered++
	}

	if failed > 0 {
		slog.Warn("[inject] some characters could not be posted", "delivered", delivered, "failed", failed)
	}
	return delivered > 0
}

// clipboardSnapshot holds the user's clipboard across one paste.
type clipboardSnapshot struct {
	saved   string
	present bool
}

// clipboardStrategy pastes through the system clipboard and restores it
// afterwards. It cannot observe whether the paste landed.
type clipboardStrategy struct {
	clipboard     Clipboard
	automation    Automation
	input         SyntheticInput
	settleDelay   time.Duration
	restoreDelay  time.Duration
	scriptTimeout time.Duration
	sleep         func(time.Duration)
}

func (s *clipboardStrategy) Name() string { return StrategyClipboard }

func (s *clipboardStrategy) Attempt(text string) bool {
	if s.clipboard == nil {
		return false
	}

	snap := s.snapshot()

	if err := s.clipboard.WriteText(text); err != nil {
		slog.Error("[inject] clipboard write failed", "error", err)
		return false
	}

	s.sleep(s.settleDelay)
	s.paste()
	s.sleep(s.restoreDelay)
	s.restore(snap)
	return true
}

func (s *clipboardStrategy) snapshot() clipboardSnapshot {
	prev, err := s.clipboard.ReadText()
	if err != nil {
		slog.Debug("[inject] clipboard read failed, will clear after paste", "error", err)
		return clipboardSnapshot{}
	}
	return clipboardSnapshot{saved: prev, present: prev != ""}
}

// paste triggers Cmd+V, preferring the automation channel and falling back
// to a synthesized key pair.
func (s *clipboardStrategy) paste() {
	if s.automation != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.scriptTimeout)
		err := s.automation.RunScript(ctx, pasteScript)
		cancel()
		if err == nil {
			return
		}
		slog.Debug("[inject] paste script failed, posting Cmd+V", "error", err)
	}
	if s.input == nil {
		slog.Warn("[inject] no input bridge for Cmd+V fallback")
		return
	}
	if err := s.input.PostKey(KeyV, ModCommand, true); err != nil {
		slog.Warn("[inject] Cmd+V key down failed", "error", err)
		return
	}
	if err := s.input.PostKey(KeyV, ModCommand, false); err != nil {
		slog.Warn("[inject] Cmd+V key up failed", "error", err)
	}
}

func (s *clipboardStrategy) restore(snap clipboardSnapshot) {
	if snap.present {
		if err := s.clipboard.WriteText(snap.saved); err != nil {
			slog.Warn("[inject] clipboard restore failed", "error", err)
		}
		return
	}
	if err := s.clipboard.Clear(); err != nil {
		slog.Warn("[inject] clipboard clear failed", "error", err)
	}
}
