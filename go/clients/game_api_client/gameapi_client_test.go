package game_api_client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huseyinTozluyurt/boardgame-client/go/internal/models"
)

const stateJSON = `{
	"gameId": 7,
	"roomName": "Friday Night",
	"status": "IN_PROGRESS",
	"serverNow": 1000,
	"turnEndsAt": 16000,
	"activeSlot": 2,
	"timeLimitSeconds": 15,
	"question": {"id": 11, "content": "Capital of France?", "hasImage": false},
	"players": [
		{"slot": 1, "userId": 100, "username": "alice", "position": 3},
		{"slot": 2, "userId": 200, "username": "bob", "position": 5}
	]
}`

func newTestClient(handler http.HandlerFunc) (*GameApiClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewGameApiClient(srv.URL), srv
}

func requireSnapshot(t *testing.T, snap *models.GameSnapshot) {
	t.Helper()
	require.NotNil(t, snap)
	require.EqualValues(t, 7, snap.RoomID)
	require.Equal(t, "Friday Night", snap.RoomName)
	require.Equal(t, models.GameStatusInProgress, snap.Status)
	require.EqualValues(t, 16000, snap.TurnEndsAt)
	require.Equal(t, 2, snap.ActiveSlot)
	require.NotNil(t, snap.Question)
	require.Equal(t, "Capital of France?", snap.Question.Content)
	require.Len(t, snap.Players, 2)
	require.Equal(t, "bob", snap.Players[1].Username)
}

func TestFetchSnapshotBare(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/games/7/state", r.URL.Path)
		w.Write([]byte(stateJSON))
	})
	defer srv.Close()

	snap, err := c.FetchSnapshot(context.Background(), 7)
	require.NoError(t, err)
	requireSnapshot(t, snap)
}

func TestFetchSnapshotEnveloped(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"state": ` + stateJSON + `}`))
	})
	defer srv.Close()

	snap, err := c.FetchSnapshot(context.Background(), 7)
	require.NoError(t, err)
	requireSnapshot(t, snap)
}

func TestFetchChatDeltaQuery(t *testing.T) {
	var gotQuery string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/games/7/chat", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"id": 4, "userId": 100, "username": "alice", "text": "hi", "createdAt": 900},
			{"id": 5, "userId": 200, "username": "bob", "text": "yo", "createdAt": 950}]`))
	})
	defer srv.Close()

	// first fetch: no cursor, no query parameter at all
	msgs, err := c.FetchChatDelta(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Empty(t, gotQuery)
	require.Len(t, msgs, 2)
	require.EqualValues(t, 4, msgs[0].ID)
	require.Equal(t, "yo", msgs[1].Text)

	// cursor present: passed as afterId
	_, err = c.FetchChatDelta(context.Background(), 7, 3)
	require.NoError(t, err)
	require.Equal(t, "afterId=3", gotQuery)
}

func TestSubmitAnswerDecodesVerdictAndState(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/games/7/answer", r.URL.Path)
		var req struct {
			UserID int64  `json:"userId"`
			Answer string `json:"answer"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.EqualValues(t, 200, req.UserID)
		require.Equal(t, "paris", req.Answer)

		w.Write([]byte(`{"correct": true, "appliedCard": {"code": "MOVE_2", "title": "Move +2"}, "state": ` + stateJSON + `}`))
	})
	defer srv.Close()

	res, err := c.SubmitAnswer(context.Background(), 7, 200, "paris")
	require.NoError(t, err)
	require.True(t, res.Correct)
	require.NotNil(t, res.AppliedCard)
	require.Equal(t, "MOVE_2", res.AppliedCard.Code)
	requireSnapshot(t, res.Snapshot)
}

func TestSubmitAnswerWithoutCard(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"correct": false, "state": ` + stateJSON + `}`))
	})
	defer srv.Close()

	res, err := c.SubmitAnswer(context.Background(), 7, 200, "london")
	require.NoError(t, err)
	require.False(t, res.Correct)
	require.Nil(t, res.AppliedCard)
	requireSnapshot(t, res.Snapshot)
}

func TestSendChatReturnsServerMessage(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"id": 42, "userId": 200, "username": "bob", "text": "hello", "createdAt": 1234}`))
	})
	defer srv.Close()

	msg, err := c.SendChat(context.Background(), 7, 200, "hello")
	require.NoError(t, err)
	require.EqualValues(t, 42, msg.ID)
	require.Equal(t, "bob", msg.Username)
}

func TestJoinRoomSendsUserID(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/games/9/join", r.URL.Path)
		require.Equal(t, "userId=200", r.URL.RawQuery)
		w.Write([]byte(`{"gameId": 9, "roomName": "Lobby", "playerId": 3, "players": 2, "timeLimitSeconds": 15}`))
	})
	defer srv.Close()

	res, err := c.JoinRoom(context.Background(), 9, 200)
	require.NoError(t, err)
	require.EqualValues(t, 9, res.GameID)
	require.Equal(t, "Lobby", res.RoomName)
}

func TestListOpenRooms(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/games/open", r.URL.Path)
		w.Write([]byte(`[{"id": 9, "name": "Lobby", "playerCount": 2, "timeLimitSeconds": 15}]`))
	})
	defer srv.Close()

	rooms, err := c.ListOpenRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, "Lobby", rooms[0].Name)
	require.EqualValues(t, 2, rooms[0].PlayerCount)
}

func TestLogin(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		w.Write([]byte(`{"id": 200, "username": "bob", "role": "PLAYER"}`))
	})
	defer srv.Close()

	auth, err := c.Login(context.Background(), "bob", "secret")
	require.NoError(t, err)
	require.EqualValues(t, 200, auth.ID)
	require.Equal(t, "bob", auth.Username)
	require.Equal(t, "PLAYER", auth.Role)
}
