package models

type User struct {
	Id     string
	Wallet string
}

type UserDto struct {
	Wallet string `json:"wallet"`
}
