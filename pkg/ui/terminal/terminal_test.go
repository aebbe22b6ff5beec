package terminal

import (
	"errors"
	"testing"
)

func TestKeyConstants(t *testing.T) {
	keys := []Key{
		KeyNone, KeyRune, KeyEnter, KeyBackspace, KeyTab, KeyBacktab, KeyEscape,
		KeyUp, KeyDown, KeyLeft, KeyRight, KeyHome, KeyEnd,
		KeyPageUp, KeyPageDown, KeyDelete, KeyInsert,
		KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6,
		KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12,
	}

	seen := make(map[Key]bool)
	for _, k := range keys {
		if seen[k] {
			t.Errorf("duplicate key constant: %d", k)
		}
		seen[k] = true
	}
}

func TestEventInterface(t *testing.T) {
	events := []Event{
		QuitEvent{},
		KeyEvent{},
		MouseEvent{},
		ResizeEvent{},
		AppTickEvent{},
		RenderTickEvent{},
		ErrorEvent{Err: errors.New("closed")},
		PasteEvent{},
		FocusEvent{},
	}
	if len(events) != 9 {
		t.Fatalf("expected 9 event kinds, got %d", len(events))
	}
}

func TestKeyEvent_IsInterrupt(t *testing.T) {
	tests := []struct {
		ev   KeyEvent
		want bool
	}{
		{KeyEvent{Key: KeyRune, Rune: 'c', Mods: ModCtrl}, true},
		{KeyEvent{Key: KeyRune, Rune: 'C', Mods: ModCtrl | ModShift}, true},
		{KeyEvent{Key: KeyRune, Rune: 'c'}, false},
		{KeyEvent{Key: KeyRune, Rune: 'd', Mods: ModCtrl}, false},
		{KeyEvent{Key: KeyEscape, Mods: ModCtrl}, false},
	}
	for _, tt := range tests {
		if got := tt.ev.IsInterrupt(); got != tt.want {
			t.Errorf("%s IsInterrupt = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestKeyEvent_Matches(t *testing.T) {
	ev := KeyEvent{Key: KeyRune, Rune: 'p', Mods: ModCtrl}

	if !ev.Matches('p', ModCtrl) {
		t.Error("expected Ctrl+p to match")
	}
	if ev.Matches('p', ModNone) {
		t.Error("expected plain p not to match Ctrl+p")
	}
}

func TestKeyEvent_String(t *testing.T) {
	tests := []struct {
		ev   KeyEvent
		want string
	}{
		{KeyEvent{Key: KeyRune, Rune: 'x', Mods: ModCtrl | ModAlt}, "Ctrl+Alt+x"},
		{KeyEvent{Key: KeyEnter}, "Enter"},
		{KeyEvent{Key: KeyF5, Mods: ModShift}, "Shift+F5"},
		{KeyEvent{Key: Key(999)}, "Key(999)"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestModMask_Has(t *testing.T) {
	m := ModCtrl | ModShift
	if !m.Has(ModCtrl) || !m.Has(ModShift) || !m.Has(ModCtrl|ModShift) {
		t.Error("expected held modifiers to be reported")
	}
	if m.Has(ModAlt) || m.Has(ModCtrl|ModAlt) {
		t.Error("expected Alt not held")
	}
}
