package draft

// CurrentTurn tells a rejected caller whose turn it actually is.
type CurrentTurn struct {
	Slot  int    `json:"slot"`
	Email string `json:"email"`
}

// MakePickRequest represents one pick submission.
type MakePickRequest struct {
	Email    string `json:"email"`
	PlayerID int    `json:"player_id"`
}
