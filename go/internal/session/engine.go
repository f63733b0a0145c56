package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/huseyinTozluyurt/boardgame-client/go/clients"
	"github.com/huseyinTozluyurt/boardgame-client/go/clients/game_api_client"
	"github.com/huseyinTozluyurt/boardgame-client/go/internal/models"
)

// Transient message lifetimes.
const (
	noticeDelay         = 3500 * time.Millisecond
	noticeLeaveDelay    = 2200 * time.Millisecond
	noticeSignInDelay   = 2500 * time.Millisecond
	noticeFinishedDelay = 5 * time.Second
)

// Destination names a place the presentation layer can be asked to go. The
// engine only requests navigation; it never performs it.
type Destination string

const (
	DestSignIn   Destination = "signin"
	DestRoomList Destination = "rooms"
)

// GameAPI is what the engine needs from the backend client.
type GameAPI interface {
	FetchSnapshot(ctx context.Context, roomID int64) (*models.GameSnapshot, error)
	FetchChatDelta(ctx context.Context, roomID, afterID int64) ([]models.ChatMessage, error)
	SubmitAnswer(ctx context.Context, roomID, userID int64, answer string) (*game_api_client.AnswerResult, error)
	SubmitTimeout(ctx context.Context, roomID, userID int64) error
	SendChat(ctx context.Context, roomID, userID int64, text string) (*models.ChatMessage, error)
	LeaveRoom(ctx context.Context, roomID, userID int64) error
}

// SessionStore is the identity/room persistence the engine may ask to
// clear on fatal outcomes. The engine never writes to it otherwise.
type SessionStore interface {
	ClearUser() error
	ClearRoom() error
}

// Navigator is the presentation-side sink for forced navigation requests.
type Navigator interface {
	NavigateTo(dest Destination)
}

// View is the derived state published to subscribers after every change.
// It is a value: subscribers may keep it without locking.
type View struct {
	Loading   bool
	Snapshot  *models.GameSnapshot
	Derived   Derived
	Chat      []models.ChatMessage
	Reward    *models.RewardArtifact
	NetBanner string // self-healing connection banner, empty when healthy
	Notice    string // one-shot user-facing message
	Finished  bool
}

// Engine is the game-session synchronization engine for exactly one
// SessionContext. It polls the authoritative state, reconciles it into a
// local view, merges the chat stream, fires the one-time turn-timeout
// notification, serializes user writes, and classifies every failure. A
// changed identity or room means a new Engine.
type Engine struct {
	api   GameAPI
	store SessionStore
	nav   Navigator
	clock clockwork.Clock
	sess  models.SessionContext

	sched  *Scheduler
	guards *Guards

	mu        sync.Mutex
	snap      *models.GameSnapshot
	chat      *ChatLog
	reward    *models.RewardArtifact
	trigger   TimeoutTrigger
	loading   bool
	finished  bool // terminal notice already emitted, snapshot frozen
	navigated bool // fatal outcome already handled, later ones dropped
	errStreak int
	interval  time.Duration
	netBanner string
	notice    string
	noticeSeq int
	listeners []func(View)

	cancel context.CancelFunc

	cycleMu     sync.Mutex
	cycleCancel context.CancelFunc
}

// NewEngine wires an engine for one session. Collaborators are injected;
// store and nav may be nil in tests.
func NewEngine(api GameAPI, store SessionStore, nav Navigator, clock clockwork.Clock, sess models.SessionContext) *Engine {
	e := &Engine{
		api:      api,
		store:    store,
		nav:      nav,
		clock:    clock,
		sess:     sess,
		guards:   NewGuards(),
		chat:     NewChatLog(),
		loading:  true,
		interval: basePollInterval,
	}
	e.sched = NewScheduler(clock, e.runCycle)
	return e
}

// Subscribe registers a listener for view updates. Call before Start;
// listeners are invoked from engine goroutines.
func (e *Engine) Subscribe(fn func(View)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Start begins polling and the 1 Hz countdown clock.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)

	log.Info().
		Int64("room_id", e.sess.RoomID).
		Int64("user_id", e.sess.UserID).
		Msg("session engine started")

	e.sched.Start(ctx)
	go e.countdownLoop(ctx)
}

// Stop ends polling and cancels outstanding requests. The snapshot is left
// in place so a finished board can keep rendering its frozen state.
func (e *Engine) Stop() {
	e.sched.Stop()
	if e.cancel != nil {
		e.cancel()
	}
}

// SetVisible pauses polling while the view is hidden; regaining visibility
// refreshes immediately.
func (e *Engine) SetVisible(visible bool) {
	e.sched.SetVisible(visible)
}

// Refresh requests one immediate poll cycle. A no-op once the game is
// finished: the frozen snapshot is never polled again.
func (e *Engine) Refresh() {
	e.mu.Lock()
	finished := e.finished
	e.mu.Unlock()
	if finished {
		return
	}
	e.sched.Kick()
}

// CurrentView returns the present derived state for pull-based consumers.
func (e *Engine) CurrentView() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildViewLocked()
}

// runCycle is one fetch cycle: cancel whatever the previous cycle left
// outstanding, issue the state and chat reads concurrently, then either
// apply both results or route the failure through the classifier.
func (e *Engine) runCycle(ctx context.Context) {
	e.cycleMu.Lock()
	if e.cycleCancel != nil {
		e.cycleCancel()
	}
	cctx, cancel := context.WithCancel(ctx)
	e.cycleCancel = cancel
	e.cycleMu.Unlock()
	defer cancel()

	cycleID := uuid.New().String()

	e.mu.Lock()
	afterID := e.chat.Cursor()
	e.mu.Unlock()

	var (
		wg      sync.WaitGroup
		snap    *models.GameSnapshot
		delta   []models.ChatMessage
		snapErr error
		chatErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		snap, snapErr = e.api.FetchSnapshot(cctx, e.sess.RoomID)
	}()
	go func() {
		defer wg.Done()
		delta, chatErr = e.api.FetchChatDelta(cctx, e.sess.RoomID, afterID)
	}()
	wg.Wait()

	if err := cycleError(snapErr, chatErr); err != nil {
		e.handleCycleFailure(err, cycleID)
		return
	}
	if clients.IsCanceled(snapErr) || clients.IsCanceled(chatErr) {
		return
	}

	e.applyCycle(snap, delta, cycleID)
}

// applyCycle reconciles one successful cycle: desync check, wholesale
// snapshot replacement, chat merge, backoff reset, terminal handling.
func (e *Engine) applyCycle(snap *models.GameSnapshot, delta []models.ChatMessage, cycleID string) {
	if err := CheckRoster(snap, e.sess.UserID); err != nil {
		log.Warn().
			Str("cycle_id", cycleID).
			Int64("room_id", e.sess.RoomID).
			Err(err).
			Msg("roster desync detected")
		e.resolveFatal(err)
		return
	}

	e.mu.Lock()
	finishedNow := e.applySnapshotLocked(snap)
	e.chat.ApplyDelta(delta)
	e.errStreak = 0
	e.netBanner = ""
	prevInterval := e.interval
	e.interval = basePollInterval
	e.mu.Unlock()

	if prevInterval != basePollInterval {
		e.sched.Reschedule(basePollInterval)
	}
	if finishedNow {
		e.noteFinished()
	}
	e.publish()
}

// applySnapshotLocked replaces the snapshot wholesale and handles the
// turn and finish transitions. Caller holds e.mu. Returns true on the
// first observation of FINISHED.
func (e *Engine) applySnapshotLocked(snap *models.GameSnapshot) bool {
	old := e.snap
	e.snap = snap
	e.loading = false

	// the turn moved on, the prize card display is stale
	if old != nil && snap != nil && snap.TurnEndsAt != old.TurnEndsAt {
		e.reward = nil
	}

	if snap.Finished() && !e.finished {
		e.finished = true
		e.reward = nil
		return true
	}
	return false
}

// noteFinished emits the one-time terminal notice and freezes the session:
// the scheduler stops and the frozen snapshot is never polled again.
func (e *Engine) noteFinished() {
	log.Info().
		Int64("room_id", e.sess.RoomID).
		Msg("game finished, polling stopped")
	e.sched.Stop()
	e.showNotice("This game is finished. You can go back to Rooms.", noticeFinishedDelay)
}

// handleCycleFailure converts one failed cycle into exactly one outcome:
// ignored, backoff, or forced navigation.
func (e *Engine) handleCycleFailure(err error, cycleID string) {
	switch Classify(err) {
	case OutcomeIgnore:
		return
	case OutcomeSignIn, OutcomeRoomList:
		e.resolveFatal(err)
	default:
		e.mu.Lock()
		e.errStreak++
		streak := e.errStreak
		e.netBanner = retryBanner(streak)
		prev := e.interval
		next := BackoffInterval(streak)
		e.interval = next
		e.mu.Unlock()

		if next != prev {
			e.sched.Reschedule(next)
		}
		log.Warn().
			Str("cycle_id", cycleID).
			Int64("room_id", e.sess.RoomID).
			Int("streak", streak).
			Dur("interval", next).
			Err(err).
			Msg("poll cycle failed")
		e.publish()
	}
}

func retryBanner(streak int) string {
	if streak >= 2 {
		return fmt.Sprintf("Connection issue. Retrying… (%d)", streak)
	}
	return "Connection issue. Retrying…"
}

// resolveFatal handles sign-in and room-list outcomes. At most one fatal
// resolution runs per engine; when both legs of a cycle fail the same way,
// navigation still happens exactly once.
func (e *Engine) resolveFatal(err error) {
	e.mu.Lock()
	if e.navigated {
		e.mu.Unlock()
		return
	}
	e.navigated = true
	e.mu.Unlock()

	e.sched.Stop()

	outcome := Classify(err)
	log.Warn().
		Int64("room_id", e.sess.RoomID).
		Int("outcome", int(outcome)).
		Err(err).
		Msg("fatal session outcome")

	switch outcome {
	case OutcomeSignIn:
		if e.store != nil {
			if serr := e.store.ClearUser(); serr != nil {
				log.Error().Err(serr).Msg("failed to clear stored user")
			}
		}
		e.showNotice("Session expired. Please sign in again.", noticeSignInDelay)
		if e.nav != nil {
			e.nav.NavigateTo(DestSignIn)
		}
	case OutcomeRoomList:
		e.clearRoomState()
		if e.store != nil {
			if serr := e.store.ClearRoom(); serr != nil {
				log.Error().Err(serr).Msg("failed to clear stored room")
			}
		}
		e.showNotice(fatalMessage(err), noticeLeaveDelay)
		if e.nav != nil {
			e.nav.NavigateTo(DestRoomList)
		}
	}
	e.publish()
}

// fatalMessage picks the one-shot text that precedes a redirect to the
// room list.
func fatalMessage(err error) string {
	var desync *DesyncError
	if errors.As(err, &desync) {
		return "You are no longer in this room. Returning to Rooms…"
	}
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			return "Room not found anymore. Returning to Rooms…"
		case http.StatusForbidden:
			return "You are not in this room. Returning to Rooms…"
		}
	}
	return "Leaving this room. Returning to Rooms…"
}

// clearRoomState abandons all room-scoped buffers.
func (e *Engine) clearRoomState() {
	e.mu.Lock()
	e.snap = nil
	e.chat.Reset()
	e.reward = nil
	e.trigger.Reset()
	e.netBanner = ""
	e.loading = true
	e.mu.Unlock()
}

// countdownLoop is the 1 Hz clock that keeps the rendered countdown moving
// between polls and drives the turn-timeout trigger.
func (e *Engine) countdownLoop(ctx context.Context) {
	ticker := e.clock.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			e.tickCountdown(ctx)
		}
	}
}

func (e *Engine) tickCountdown(ctx context.Context) {
	var fire bool
	e.mu.Lock()
	if e.snap != nil && !e.finished && !e.navigated {
		d := Reconcile(e.snap, e.sess.UserID, e.clock.Now())
		fire = e.trigger.ShouldFire(e.snap.TurnEndsAt, d.IsMyTurn, e.clock.Now())
	}
	e.mu.Unlock()

	e.publish()

	if fire {
		go e.SubmitTurnTimeout(ctx)
	}
}

// SubmitAnswer sends the active question answer. A second call while one
// is pending performs no network call at all.
func (e *Engine) SubmitAnswer(ctx context.Context, answer string) {
	e.mu.Lock()
	finished := e.finished
	e.mu.Unlock()
	if finished {
		e.showNotice("Game finished — answering disabled.", noticeDelay)
		return
	}
	if !e.guards.Begin(ActionSubmitAnswer) {
		return
	}
	defer e.guards.End(ActionSubmitAnswer)

	res, err := e.api.SubmitAnswer(ctx, e.sess.RoomID, e.sess.UserID, answer)
	if err != nil {
		e.handleActionFailure(err)
		return
	}

	// optimistic update from the authoritative response, never before it
	var finishedNow bool
	e.mu.Lock()
	if res.Snapshot != nil {
		finishedNow = e.applySnapshotLocked(res.Snapshot)
	}
	if res.AppliedCard != nil && !finishedNow {
		e.reward = res.AppliedCard
	}
	e.mu.Unlock()

	if finishedNow {
		e.noteFinished()
	}
	e.publish()
}

// SubmitTurnTimeout notifies the server that our own turn expired. Fire
// and forget: the authoritative consequence arrives with the next poll.
func (e *Engine) SubmitTurnTimeout(ctx context.Context) {
	if !e.guards.Begin(ActionSubmitTimeout) {
		return
	}
	defer e.guards.End(ActionSubmitTimeout)

	if err := e.api.SubmitTimeout(ctx, e.sess.RoomID, e.sess.UserID); err != nil {
		e.handleActionFailure(err)
	}
}

// SendChat posts one message and merges the confirmed result into the chat
// buffer, cursor included, so the next delta cannot duplicate it.
func (e *Engine) SendChat(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	e.mu.Lock()
	finished := e.finished
	e.mu.Unlock()
	if finished {
		e.showNotice("Game finished — chat disabled.", noticeDelay)
		return
	}
	if !e.guards.Begin(ActionSendChat) {
		return
	}
	defer e.guards.End(ActionSendChat)

	msg, err := e.api.SendChat(ctx, e.sess.RoomID, e.sess.UserID, text)
	if err != nil {
		e.handleActionFailure(err)
		return
	}

	e.mu.Lock()
	e.chat.AppendLocal(*msg)
	e.mu.Unlock()
	e.publish()
}

// Leave stops the session and tells the server, best effort: local cleanup
// and navigation proceed regardless of the server's verdict.
func (e *Engine) Leave(ctx context.Context) {
	e.Stop()

	if err := e.api.LeaveRoom(ctx, e.sess.RoomID, e.sess.UserID); err != nil && !clients.IsCanceled(err) {
		log.Warn().
			Int64("room_id", e.sess.RoomID).
			Err(err).
			Msg("leave room failed, leaving anyway")
	}

	e.clearRoomState()
	if e.store != nil {
		if err := e.store.ClearRoom(); err != nil {
			log.Error().Err(err).Msg("failed to clear stored room")
		}
	}
	if e.nav != nil {
		e.nav.NavigateTo(DestRoomList)
	}
}

// DismissReward clears the prize card on explicit user request.
func (e *Engine) DismissReward() {
	e.mu.Lock()
	e.reward = nil
	e.mu.Unlock()
	e.publish()
}

// handleActionFailure routes a failed user action: conflicts and transient
// trouble become banners, fatal statuses escalate exactly like poll
// failures, cancellations vanish.
func (e *Engine) handleActionFailure(err error) {
	switch Classify(err) {
	case OutcomeIgnore:
		return
	case OutcomeSignIn, OutcomeRoomList:
		e.resolveFatal(err)
	default:
		e.showNotice(FailureMessage(err), noticeDelay)
	}
}

// showNotice publishes a transient message that clears itself after d
// unless a newer notice superseded it first.
func (e *Engine) showNotice(msg string, d time.Duration) {
	e.mu.Lock()
	e.noticeSeq++
	seq := e.noticeSeq
	e.notice = msg
	e.mu.Unlock()
	e.publish()

	e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		if e.noticeSeq != seq {
			e.mu.Unlock()
			return
		}
		e.notice = ""
		e.mu.Unlock()
		e.publish()
	})
}

func (e *Engine) publish() {
	e.mu.Lock()
	v := e.buildViewLocked()
	listeners := e.listeners
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(v)
	}
}

func (e *Engine) buildViewLocked() View {
	v := View{
		Loading:   e.loading,
		Snapshot:  e.snap,
		Chat:      e.chat.Messages(),
		Reward:    e.reward,
		NetBanner: e.netBanner,
		Notice:    e.notice,
		Finished:  e.finished,
	}
	if e.snap != nil {
		v.Derived = Reconcile(e.snap, e.sess.UserID, e.clock.Now())
	}
	return v
}
