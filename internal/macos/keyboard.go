package macos

import (
	"fmt"
	"sync"

	"github.com/micmonay/keybd_event"

	"github.com/chaz8081/dictabar/internal/inject"
)

// Keyboard synthesizes keyboard input. Unicode payload events go through
// CoreGraphics; virtual-key events with modifiers go through keybd_event.
type Keyboard struct {
	mu       sync.Mutex
	once     sync.Once
	kb       keybd_event.KeyBonding
	kbErr    error
	postText func(string, bool) error
}

// NewKeyboard returns the session keyboard.
func NewKeyboard() *Keyboard {
	return &Keyboard{postText: postUnicode}
}

// PostUnicode implements inject.SyntheticInput.
func (k *Keyboard) PostUnicode(s string, down bool) error {
	return k.postText(s, down)
}

// PostKey implements inject.SyntheticInput.
func (k *Keyboard) PostKey(code int, mods inject.Modifier, down bool) error {
	k.once.Do(func() {
		k.kb, k.kbErr = keybd_event.NewKeyBonding()
	})
	if k.kbErr != nil {
		return fmt.Errorf("macos: key bonding: %w", k.kbErr)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	k.kb.SetKeys(code)
	k.kb.HasSuper(mods&inject.ModCommand != 0)
	k.kb.HasSHIFT(mods&inject.ModShift != 0)
	k.kb.HasALT(mods&inject.ModOption != 0)
	k.kb.HasCTRL(mods&inject.ModControl != 0)

	var err error
	if down {
		err = k.kb.Press()
	} else {
		err = k.kb.Release()
	}
	if err != nil {
		return fmt.Errorf("macos: post key %d: %w", code, err)
	}
	return nil
}
