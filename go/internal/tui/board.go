package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (a App) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			a.chatFocused = !a.chatFocused
			if a.chatFocused {
				a.chatInput.Focus()
				a.answerInput.Blur()
			} else {
				a.answerInput.Focus()
				a.chatInput.Blur()
			}
			return a, nil

		case "enter":
			eng := a.engine
			if eng == nil {
				return a, nil
			}
			ctx := a.ctx
			if a.chatFocused {
				text := a.chatInput.Value()
				a.chatInput.SetValue("")
				return a, func() tea.Msg {
					eng.SendChat(ctx, text)
					return nil
				}
			}
			text := a.answerInput.Value()
			a.answerInput.SetValue("")
			return a, func() tea.Msg {
				eng.SubmitAnswer(ctx, text)
				return nil
			}

		case "ctrl+r":
			if a.engine != nil {
				a.engine.Refresh()
			}
			return a, nil

		case "ctrl+d":
			if a.engine != nil {
				a.engine.DismissReward()
			}
			return a, nil

		case "ctrl+l":
			eng := a.engine
			if eng == nil {
				return a, nil
			}
			ctx := a.ctx
			return a, func() tea.Msg {
				eng.Leave(ctx)
				return nil
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.answerInput, cmd = a.answerInput.Update(msg)
	cmds = append(cmds, cmd)
	a.chatInput, cmd = a.chatInput.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}
