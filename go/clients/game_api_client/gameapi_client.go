package game_api_client

import (
	"github.com/huseyinTozluyurt/boardgame-client/go/clients"
)

// GameApiClient is the typed client for the board game backend. All calls
// take a context so an in-flight request can be canceled when a newer poll
// cycle supersedes it.
type GameApiClient struct {
	*clients.BaseClient
}

func NewGameApiClient(baseURL string) *GameApiClient {
	client := &GameApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader("Content-Type", "application/json")

	return client
}
