package entity

// Session is one live game owned by a single presenter connection.
type Session struct {
	ID    string    `json:"id"`
	State GameState `json:"state"`
}
