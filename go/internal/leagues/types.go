package leagues

// CreateLeagueRequest represents the data needed to create a new league.
// InviteEmails excludes the commissioner; MaxPlayers 0 means the default (4).
type CreateLeagueRequest struct {
	Name              string   `json:"name"`
	CommissionerEmail string   `json:"commissioner_email"`
	InviteEmails      []string `json:"invite_emails"`
	MaxPlayers        int      `json:"max_players"`
}

const (
	// MinPlayers and MaxPlayersLimit bound league size.
	MinPlayers      = 2
	MaxPlayersLimit = 4

	defaultMaxPlayers = 4
)
