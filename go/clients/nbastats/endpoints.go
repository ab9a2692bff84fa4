package nbastats

const (
	// Base URL
	BaseURL = "https://api.balldontlie.io/v1"

	// API Endpoints
	PlayersEndpoint = "/players"
	TeamsEndpoint   = "/teams"

	// Paging
	DefaultPerPage = 100

	// Headers
	AuthorizationHeader = "Authorization"
)
