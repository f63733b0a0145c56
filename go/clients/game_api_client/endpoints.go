package game_api_client

const (
	// API Endpoints
	GamesEndpoint = "/api/games"
	LoginEndpoint = "/api/auth/login"
)
