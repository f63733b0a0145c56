package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/huseyinTozluyurt/boardgame-client/go/clients/game_api_client"
	"github.com/huseyinTozluyurt/boardgame-client/go/internal/localstate"
	"github.com/huseyinTozluyurt/boardgame-client/go/internal/models"
	"github.com/huseyinTozluyurt/boardgame-client/go/internal/session"
)

type page int

const (
	pageSignIn page = iota
	pageRooms
	pageBoard
)

const requestTimeout = 10 * time.Second

// navRelay forwards the engine's navigation requests into the update loop.
type navRelay struct {
	ch chan session.Destination
}

func (n *navRelay) NavigateTo(dest session.Destination) {
	select {
	case n.ch <- dest:
	default:
	}
}

// storeAdapter exposes the local store through the engine's SessionStore
// contract.
type storeAdapter struct {
	store *localstate.Store
}

func (a storeAdapter) ClearUser() error {
	return a.store.ClearUser(context.Background())
}

func (a storeAdapter) ClearRoom() error {
	return a.store.ClearRoom(context.Background())
}

// App is the terminal front end: sign-in, room list, and the live board.
// It consumes the sync engine's views and forwards its navigation
// requests; all game logic stays in the session package.
type App struct {
	ctx   context.Context
	api   *game_api_client.GameApiClient
	store *localstate.Store
	clock clockwork.Clock

	page          page
	width, height int

	username  textinput.Model
	password  textinput.Model
	focusIdx  int
	signinErr string

	rooms      []models.RoomSummary
	roomCursor int
	roomsErr   string
	loadingRooms bool

	user *localstate.Identity

	engine      *session.Engine
	view        session.View
	answerInput textinput.Model
	chatInput   textinput.Model
	chatFocused bool

	views chan session.View
	navs  chan session.Destination
}

type viewMsg session.View

type navMsg session.Destination

type roomsMsg struct {
	rooms []models.RoomSummary
	err   error
}

type loginMsg struct {
	id  *localstate.Identity
	err error
}

type joinedMsg struct {
	roomID int64
	err    error
}

// New builds the app. A previously stored identity skips straight to the
// room list.
func New(ctx context.Context, api *game_api_client.GameApiClient, store *localstate.Store, clock clockwork.Clock) App {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	answer := textinput.New()
	answer.Placeholder = "your answer"
	answer.Focus()
	chat := textinput.New()
	chat.Placeholder = "say something"

	a := App{
		ctx:         ctx,
		api:         api,
		store:       store,
		clock:       clock,
		page:        pageSignIn,
		username:    username,
		password:    password,
		answerInput: answer,
		chatInput:   chat,
		views:       make(chan session.View, 16),
		navs:        make(chan session.Destination, 4),
	}

	if id, err := store.LoadUser(ctx); err == nil {
		a.user = id
		a.page = pageRooms
	}

	return a
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, a.waitForNav()}
	if a.page == pageRooms {
		cmds = append(cmds, a.loadRooms())
	}
	return tea.Batch(cmds...)
}

func (a App) waitForView() tea.Cmd {
	ch := a.views
	return func() tea.Msg {
		return viewMsg(<-ch)
	}
}

func (a App) waitForNav() tea.Cmd {
	ch := a.navs
	return func() tea.Msg {
		return navMsg(<-ch)
	}
}

func (a App) loadRooms() tea.Cmd {
	api, parent := a.api, a.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		rooms, err := api.ListOpenRooms(ctx)
		return roomsMsg{rooms: rooms, err: err}
	}
}

func (a App) doLogin(username, password string) tea.Cmd {
	api, store, parent := a.api, a.store, a.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		auth, err := api.Login(ctx, username, password)
		if err != nil {
			return loginMsg{err: err}
		}
		id := &localstate.Identity{UserID: auth.ID, Username: auth.Username, Role: auth.Role}
		if err := store.SaveUser(ctx, *id); err != nil {
			return loginMsg{err: err}
		}
		return loginMsg{id: id}
	}
}

func (a App) joinRoom(roomID int64) tea.Cmd {
	api, store, parent, userID := a.api, a.store, a.ctx, a.user.UserID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		result, err := api.JoinRoom(ctx, roomID, userID)
		if err != nil {
			return joinedMsg{err: err}
		}
		if err := store.SaveRoom(ctx, result.GameID); err != nil {
			return joinedMsg{err: err}
		}
		return joinedMsg{roomID: result.GameID}
	}
}

// startEngine builds and starts one sync engine for the joined room.
func (a *App) startEngine(roomID int64) tea.Cmd {
	sess := models.SessionContext{
		UserID:   a.user.UserID,
		Username: a.user.Username,
		RoomID:   roomID,
	}
	eng := session.NewEngine(a.api, storeAdapter{store: a.store}, &navRelay{ch: a.navs}, a.clock, sess)

	views := a.views
	eng.Subscribe(func(v session.View) {
		pushView(views, v)
	})
	eng.Start(a.ctx)

	a.engine = eng
	a.view = eng.CurrentView()
	a.page = pageBoard
	a.chatFocused = false
	a.answerInput.SetValue("")
	a.chatInput.SetValue("")
	return a.waitForView()
}

// pushView delivers the newest view, evicting the oldest when the consumer
// lags. The final state always lands.
func pushView(ch chan session.View, v session.View) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (a *App) teardownEngine() {
	if a.engine != nil {
		a.engine.Stop()
		a.engine = nil
	}
	a.view = session.View{}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.teardownEngine()
			return a, tea.Quit
		}

	case tea.FocusMsg:
		if a.engine != nil {
			a.engine.SetVisible(true)
		}
		return a, nil

	case tea.BlurMsg:
		if a.engine != nil {
			a.engine.SetVisible(false)
		}
		return a, nil

	case viewMsg:
		a.view = session.View(msg)
		return a, a.waitForView()

	case navMsg:
		return a.handleNav(session.Destination(msg))

	case roomsMsg:
		a.loadingRooms = false
		if msg.err != nil {
			a.roomsErr = "Could not load rooms. Press r to retry."
			return a, nil
		}
		a.roomsErr = ""
		a.rooms = msg.rooms
		if a.roomCursor >= len(a.rooms) {
			a.roomCursor = 0
		}
		return a, nil

	case loginMsg:
		if msg.err != nil {
			a.signinErr = "Sign in failed. Check your credentials."
			return a, nil
		}
		a.signinErr = ""
		a.user = msg.id
		a.page = pageRooms
		return a, a.loadRooms()

	case joinedMsg:
		if msg.err != nil {
			a.roomsErr = "Could not join that room."
			return a, nil
		}
		return a, a.startEngine(msg.roomID)
	}

	switch a.page {
	case pageSignIn:
		return a.updateSignIn(msg)
	case pageRooms:
		return a.updateRooms(msg)
	default:
		return a.updateBoard(msg)
	}
}

func (a App) handleNav(dest session.Destination) (tea.Model, tea.Cmd) {
	a.teardownEngine()
	switch dest {
	case session.DestSignIn:
		a.user = nil
		a.page = pageSignIn
		a.username.SetValue("")
		a.password.SetValue("")
		a.focusIdx = 0
		a.username.Focus()
		a.password.Blur()
		return a, a.waitForNav()
	default:
		a.page = pageRooms
		return a, tea.Batch(a.waitForNav(), a.loadRooms())
	}
}

func (a App) updateSignIn(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab":
			a.focusIdx = (a.focusIdx + 1) % 2
			if a.focusIdx == 0 {
				a.username.Focus()
				a.password.Blur()
			} else {
				a.password.Focus()
				a.username.Blur()
			}
			return a, nil
		case "enter":
			user := a.username.Value()
			pass := a.password.Value()
			if user == "" || pass == "" {
				a.signinErr = "Username and password are required."
				return a, nil
			}
			return a, a.doLogin(user, pass)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.username, cmd = a.username.Update(msg)
	cmds = append(cmds, cmd)
	a.password, cmd = a.password.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a App) updateRooms(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q":
		return a, tea.Quit
	case "r":
		a.loadingRooms = true
		return a, a.loadRooms()
	case "o":
		// sign out
		if err := a.store.ClearUser(a.ctx); err == nil {
			a.user = nil
			a.page = pageSignIn
		}
		return a, nil
	case "up", "k":
		if a.roomCursor > 0 {
			a.roomCursor--
		}
		return a, nil
	case "down", "j":
		if a.roomCursor < len(a.rooms)-1 {
			a.roomCursor++
		}
		return a, nil
	case "enter":
		if len(a.rooms) == 0 {
			return a, nil
		}
		return a, a.joinRoom(a.rooms[a.roomCursor].ID)
	}
	return a, nil
}
