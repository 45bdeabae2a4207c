package queries

import (
	"fmt"
	"strconv"

	"github.com/gomodule/redigo/redis"

	"github.com/multipoly/multipoly-backend/app/models"
	"github.com/multipoly/multipoly-backend/platform/cache"
)

// Redis mirror of a room's accepted state. The in-memory roster stays
// authoritative; the mirror exists so reconnecting clients get a warm
// snapshot and the lobby can show live player counts. Key scheme:
//
//	<game>            -> advisory turn hint (user id)
//	<game>.order      -> list of user ids in join order
//	<game>.<user>     -> hash: pos, turn, bal:<SYM> per currency
func playerKey(gameId, userId string) string {
	return fmt.Sprintf("%s.%s", gameId, userId)
}

func orderKey(gameId string) string {
	return fmt.Sprintf("%s.order", gameId)
}

func MirrorPlayerJoin(gameId, userId string, conn *redis.Conn) error {
	key := playerKey(gameId, userId)
	if err := cache.HSET(key, "pos", 1, conn); err != nil {
		return err
	}
	if err := cache.HSET(key, "turn", 0, conn); err != nil {
		return err
	}
	for _, sym := range models.Currencies {
		if err := cache.HSET(key, "bal:"+sym, 0, conn); err != nil {
			return err
		}
	}
	return cache.RPUSH(orderKey(gameId), userId, conn)
}

func MirrorPlayerLeave(gameId, userId string, conn *redis.Conn) {
	cache.Del(playerKey(gameId, userId), conn)
	cache.LREM(orderKey(gameId), userId, conn)
}

func MirrorRoll(gameId string, evt models.RollEvent, conn *redis.Conn) error {
	key := playerKey(gameId, evt.Player)
	if err := cache.HSET(key, "pos", evt.NewPosition, conn); err != nil {
		return err
	}
	return cache.HSET(key, "turn", evt.TurnNumber, conn)
}

func MirrorBalance(gameId, userId, symbol string, delta int, conn *redis.Conn) (int, error) {
	return cache.HINCRBY(playerKey(gameId, userId), "bal:"+symbol, delta, conn)
}

func MirrorTurnHint(gameId, userId string, conn *redis.Conn) error {
	return cache.Set(gameId, userId, conn)
}

func TurnHint(gameId string, conn *redis.Conn) (string, error) {
	return cache.Get(gameId, conn)
}

func RoomSize(gameId string, conn *redis.Conn) (int, error) {
	return cache.LLEN(orderKey(gameId), conn)
}

// RoomSnapshot rebuilds player states from the mirror, in join order.
// Properties are not mirrored; a reconnecting client re-learns ownership from
// mint broadcasts.
func RoomSnapshot(gameId string, conn *redis.Conn) ([]models.PlayerState, error) {
	ids, err := cache.LGET(orderKey(gameId), conn)
	if err != nil {
		return nil, err
	}

	out := make([]models.PlayerState, 0, len(ids))
	for _, id := range ids {
		key := playerKey(gameId, id)
		p := models.NewPlayerState(id, nil)
		if v, err := cache.HGET(key, "pos", conn); err == nil {
			p.Position, _ = strconv.Atoi(v)
		}
		if v, err := cache.HGET(key, "turn", conn); err == nil {
			p.TurnNumber, _ = strconv.Atoi(v)
		}
		for _, sym := range models.Currencies {
			if v, err := cache.HGET(key, "bal:"+sym, conn); err == nil {
				p.Balances[sym], _ = strconv.Atoi(v)
			}
		}
		out = append(out, *p)
	}
	return out, nil
}

// CleanupRoom drops every mirror key for a finished room.
func CleanupRoom(gameId string, conn *redis.Conn) {
	ids, _ := cache.LGET(orderKey(gameId), conn)
	for _, id := range ids {
		cache.Del(playerKey(gameId, id), conn)
	}
	cache.Del(gameId, conn)
	cache.Del(orderKey(gameId), conn)
}
