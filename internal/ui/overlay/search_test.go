package overlay

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	msg := run(cmd)
	if msg == nil {
		return nil
	}
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func searchMsgs(msgs []tea.Msg) []SearchMsg {
	var out []SearchMsg
	for _, m := range msgs {
		if s, ok := m.(SearchMsg); ok {
			out = append(out, s)
		}
	}
	return out
}

func TestNewSearchOverlay(t *testing.T) {
	s := NewSearchOverlay("")
	require.NotNil(t, s)
	assert.Equal(t, "", s.Query())
	assert.Equal(t, "", s.Title())

	width, height := s.Size()
	assert.Equal(t, 0, width, "width should be 0 for full-width")
	assert.Equal(t, 1, height, "height should be 1 for single line")
	assert.NotNil(t, s.Init())
}

func TestSearchOverlay_SeededQuery(t *testing.T) {
	s := NewSearchOverlay("deploy")
	assert.Equal(t, "deploy", s.Query())

	s.SetMatchCount(3)
	assert.Contains(t, s.View(), "(3 matches)")
}

func TestSearchOverlay_TypingEmitsQuery(t *testing.T) {
	s := NewSearchOverlay("")

	_, cmd := s.Update(key("a"))
	assert.Equal(t, []SearchMsg{{Query: "a"}}, searchMsgs(collect(cmd)))

	_, cmd = s.Update(key("b"))
	assert.Equal(t, []SearchMsg{{Query: "ab"}}, searchMsgs(collect(cmd)))

	_, cmd = s.Update(key("backspace"))
	assert.Equal(t, []SearchMsg{{Query: "a"}}, searchMsgs(collect(cmd)))
}

func TestSearchOverlay_EnterKeepsQuery(t *testing.T) {
	s := NewSearchOverlay("bug")

	_, cmd := s.Update(key("enter"))
	msgs := collect(cmd)

	assert.Equal(t, []tea.Msg{CloseOverlayMsg{}}, msgs)
	assert.Equal(t, "bug", s.Query())
}

func TestSearchOverlay_EscClearsQuery(t *testing.T) {
	s := NewSearchOverlay("bug")

	_, cmd := s.Update(key("esc"))
	msgs := collect(cmd)

	assert.Contains(t, msgs, SearchMsg{Query: ""})
	assert.Contains(t, msgs, tea.Msg(CloseOverlayMsg{}))
	assert.Equal(t, "", s.Query())
}
