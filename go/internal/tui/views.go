package tui

import (
	"fmt"
	"strings"
)

// chatWindow is how many recent messages the board shows.
const chatWindow = 12

func (a App) View() string {
	switch a.page {
	case pageSignIn:
		return a.viewSignIn()
	case pageRooms:
		return a.viewRooms()
	default:
		return a.viewBoard()
	}
}

func (a App) viewSignIn() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Board Game — Sign In"))
	b.WriteString("\n\n")
	b.WriteString(a.username.View())
	b.WriteString("\n")
	b.WriteString(a.password.View())
	b.WriteString("\n\n")
	if a.signinErr != "" {
		b.WriteString(errorStyle.Render(a.signinErr))
		b.WriteString("\n\n")
	}
	b.WriteString(faintStyle.Render("tab: switch field · enter: sign in · ctrl+c: quit"))
	return b.String()
}

func (a App) viewRooms() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Open Rooms"))
	if a.user != nil {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  signed in as %s", a.user.Username)))
	}
	b.WriteString("\n\n")

	switch {
	case a.loadingRooms:
		b.WriteString(faintStyle.Render("Loading…"))
		b.WriteString("\n")
	case len(a.rooms) == 0:
		b.WriteString(faintStyle.Render("No open rooms right now."))
		b.WriteString("\n")
	default:
		for i, room := range a.rooms {
			line := fmt.Sprintf("%s  (%d/4 players, %ds turns)", room.Name, room.PlayerCount, room.TimeLimitSeconds)
			if i == a.roomCursor {
				b.WriteString(cursorStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	if a.roomsErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(a.roomsErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render("enter: join · r: refresh · o: sign out · q: quit"))
	return b.String()
}

func (a App) viewBoard() string {
	v := a.view
	var b strings.Builder

	name := "Room"
	if v.Snapshot != nil && v.Snapshot.RoomName != "" {
		name = v.Snapshot.RoomName
	}
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n")

	if v.Notice != "" {
		b.WriteString(noticeStyle.Render(v.Notice))
		b.WriteString("\n")
	}
	if v.NetBanner != "" {
		b.WriteString(bannerStyle.Render(v.NetBanner))
		b.WriteString("\n")
	}

	if v.Loading || v.Snapshot == nil {
		b.WriteString("\n")
		b.WriteString(faintStyle.Render("Loading game state…"))
		return b.String()
	}

	// turn card
	b.WriteString("\n")
	switch {
	case v.Finished:
		line := "Finished 🏁"
		if v.Snapshot.WinnerUsername != "" {
			line += "  Winner: " + v.Snapshot.WinnerUsername
		}
		b.WriteString(turnStyle.Render(line))
	case v.Derived.IsMyTurn:
		b.WriteString(turnStyle.Render(fmt.Sprintf("Your turn ✅  ⏳ %ds", v.Derived.SecondsLeft)))
	default:
		b.WriteString(fmt.Sprintf("Waiting for %s…  ⏳ %ds", v.Derived.ActiveName, v.Derived.SecondsLeft))
	}
	b.WriteString("\n\n")

	// board tokens
	for _, tok := range v.Derived.Tokens {
		style, ok := tokenStyles[tok.Color]
		if !ok {
			style = faintStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("● %-8s", tok.Name)))
		b.WriteString(fmt.Sprintf("  slot %d · square %d\n", tok.Slot, tok.Position))
	}

	// question
	if q := v.Snapshot.Question; q != nil && !v.Finished {
		content := q.Content
		if q.HasImage {
			content += "  [image]"
		}
		b.WriteString("\n")
		b.WriteString(cardStyle.Render("❓ " + content))
		b.WriteString("\n")
	}

	// prize card
	if v.Reward != nil {
		card := v.Reward.Title
		if card == "" {
			card = v.Reward.Code
		}
		if v.Reward.Icon != "" {
			card = v.Reward.Icon + " " + card
		}
		if v.Reward.Description != "" {
			card += "\n" + v.Reward.Description
		}
		b.WriteString("\n")
		b.WriteString(cardStyle.Render("🎴 " + card))
		b.WriteString("\n")
		b.WriteString(faintStyle.Render("ctrl+d: dismiss card"))
		b.WriteString("\n")
	}

	// chat
	b.WriteString("\n")
	msgs := v.Chat
	if len(msgs) > chatWindow {
		msgs = msgs[len(msgs)-chatWindow:]
	}
	for _, m := range msgs {
		b.WriteString(faintStyle.Render(m.Username+":") + " " + m.Text + "\n")
	}

	b.WriteString("\n")
	b.WriteString(a.answerInput.View())
	b.WriteString("\n")
	b.WriteString(a.chatInput.View())
	b.WriteString("\n\n")
	b.WriteString(faintStyle.Render("tab: answer/chat · enter: send · ctrl+r: refresh · ctrl+l: leave room · ctrl+c: quit"))
	return b.String()
}
