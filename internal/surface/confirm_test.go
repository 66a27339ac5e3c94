package surface

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func TestConfirmBoundKeys(t *testing.T) {
	cases := []struct {
		key     string
		wantYes bool
	}{
		{"y", true},
		{"n", false},
		{"q", false},
		{"esc", false},
	}

	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			yes, no := 0, 0
			c := NewConfirm(ConfirmOptions{
				Prompt: "Remove source directory?",
				OnYes:  func() { yes++ },
				OnNo:   func() { no++ },
			})
			c.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

			_, cmd := c.Update(keyMsg(tc.key))
			if cmd == nil {
				t.Fatal("bound key should quit the prompt")
			}
			if tc.wantYes && (yes != 1 || no != 0) {
				t.Fatalf("key %q: yes=%d no=%d, want exactly one yes", tc.key, yes, no)
			}
			if !tc.wantYes && (yes != 0 || no != 1) {
				t.Fatalf("key %q: yes=%d no=%d, want exactly one no", tc.key, yes, no)
			}
		})
	}
}

func TestConfirmUnrecognizedKeysAreInert(t *testing.T) {
	yes, no := 0, 0
	c := NewConfirm(ConfirmOptions{
		Prompt: "Update now?",
		OnYes:  func() { yes++ },
		OnNo:   func() { no++ },
	})
	c.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	for _, key := range []string{"x", "z", "enter", " ", "1"} {
		if _, cmd := c.Update(keyMsg(key)); cmd != nil {
			t.Fatalf("key %q should be inert", key)
		}
	}
	if yes != 0 || no != 0 {
		t.Fatalf("inert keys fired callbacks: yes=%d no=%d", yes, no)
	}

	// The prompt still answers normally afterwards.
	c.Update(keyMsg("y"))
	if yes != 1 || no != 0 {
		t.Fatalf("yes=%d no=%d after answer", yes, no)
	}
}

func TestConfirmAnswersAtMostOnce(t *testing.T) {
	yes, no := 0, 0
	c := NewConfirm(ConfirmOptions{
		OnYes: func() { yes++ },
		OnNo:  func() { no++ },
	})
	c.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	c.Update(keyMsg("y"))
	c.Update(keyMsg("y"))
	c.Update(keyMsg("n"))
	if yes != 1 || no != 0 {
		t.Fatalf("yes=%d no=%d, want a single yes", yes, no)
	}
	if !c.Answered() {
		t.Fatal("prompt should record the answer")
	}
}

func TestConfirmDefaultNoEmitsCanceledNotice(t *testing.T) {
	c := NewConfirm(ConfirmOptions{Prompt: "Update now?"})
	c.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	c.Update(keyMsg("esc"))
	if c.Notice() != "canceled" {
		t.Fatalf("notice = %q, want canceled", c.Notice())
	}
}
