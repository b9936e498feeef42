package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mpetrov/wa-chat-search/internal/index"
	"github.com/mpetrov/wa-chat-search/internal/render"
	"github.com/mpetrov/wa-chat-search/internal/search"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	chatKey string
	msgID   int
	content string
	hitLine int
	err     error
}

// loadPreviewCmd returns a tea.Cmd that renders the chat preview async.
func loadPreviewCmd(db *index.DB, r search.Result, query, self string, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := render.RenderChat(db, r.ChatKey, render.Options{
			HitMsgID: r.MsgID,
			Context:  -1,
			Width:    width,
			Self:     self,
			Query:    query,
		})
		return previewRenderedMsg{
			chatKey: r.ChatKey,
			msgID:   r.MsgID,
			content: content,
			hitLine: hitLine,
			err:     err,
		}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
