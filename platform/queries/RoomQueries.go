package queries

import (
	"github.com/go-pg/pg/v10"
	uuid "github.com/satori/go.uuid"

	"github.com/multipoly/multipoly-backend/app/models"
)

func VerifyGame(id string, db *pg.DB) bool {
	game := &models.Game{Id: id}
	err := db.Model(game).WherePK().Select()
	return err == nil
}

// GetOrCreateUser resolves a wallet address to a user row, creating one on
// first login. Wallets are the stable player identity.
func GetOrCreateUser(wallet string, db *pg.DB) (models.User, error) {
	user := new(models.User)
	err := db.Model(user).Where("wallet = ?", wallet).Select()
	if err == nil {
		return *user, nil
	}

	created := models.User{
		Id:     uuid.NewV4().String(),
		Wallet: wallet,
	}
	if _, err := db.Model(&created).Insert(); err != nil {
		return models.User{}, err
	}
	return created, nil
}

func GetUserData(userId string, db *pg.DB) (models.User, error) {
	user := &models.User{Id: userId}
	err := db.Model(user).WherePK().Select()
	return *user, err
}

func CreatePlayer(player models.Player, db *pg.DB) error {
	_, err := db.Model(&player).Insert()
	return err
}

// DeletePlayer removes a room membership row and reports how many players
// remain. An emptied room row is deleted with it.
func DeletePlayer(userId string, gameId string, db *pg.DB) (int, error) {
	player := new(models.Player)
	if _, err := db.Model(player).Where("user_id = ? and game_id = ?", userId, gameId).Delete(); err != nil {
		return 0, err
	}

	var players []models.Player
	if err := db.Model(&players).Where("game_id = ?", gameId).Select(); err != nil || len(players) == 0 {
		game := new(models.Game)
		db.Model(game).Where("id = ?", gameId).Delete()
		return 0, nil
	}
	return len(players), nil
}

// StartGame flips the room into progress and returns its players in join
// order, which seeds the advisory turn order.
func StartGame(gameId string, db *pg.DB) ([]models.Player, error) {
	var players []models.Player
	if err := db.Model(&players).Where("game_id = ?", gameId).Select(); err != nil {
		return nil, err
	}
	if len(players) <= 1 {
		return nil, nil
	}

	game := &models.Game{Id: gameId}
	if _, err := db.Model(game).WherePK().Set("status = ?", "in progress").Update(); err != nil {
		return nil, err
	}
	return players, nil
}
