package models

type Game struct {
	Id     string
	Name   string
	Status string
}

type GameCreateDto struct {
	Name string
}

type VerifyGameDto struct {
	Code    string
	User_id string
}

// Player is the room-membership row; the live game state for a player is
// PlayerState, kept in memory and mirrored to redis.
type Player struct {
	User_id string
	Game_id string
	Wallet  string
}
