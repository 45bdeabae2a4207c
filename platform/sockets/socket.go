package socket

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"sync"

	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/multipoly/multipoly-backend/app/models"
	"github.com/multipoly/multipoly-backend/platform/cache"
	"github.com/multipoly/multipoly-backend/platform/database"
	"github.com/multipoly/multipoly-backend/platform/game"
	"github.com/multipoly/multipoly-backend/platform/queries"
	"github.com/multipoly/multipoly-backend/platform/roster"
)

// rooms tracks one roster replica per active game room. The roster is the
// authoritative accepted state on this relay; redis only mirrors it.
type rooms struct {
	mu sync.Mutex
	m  map[string]*roster.Roster
}

func (r *rooms) get(gameId string) *roster.Roster {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ros, ok := r.m[gameId]; ok {
		return ros
	}
	ros := roster.New()
	r.m[gameId] = ros
	return ros
}

// lookup never creates: events arriving for a room nobody joined must not
// conjure ghost state.
func (r *rooms) lookup(gameId string) (*roster.Roster, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ros, ok := r.m[gameId]
	return ros, ok
}

func (r *rooms) drop(gameId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, gameId)
}

func marshalEnvelope(env models.Envelope) string {
	raw, err := json.Marshal(env)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

func CreateSocketIOServer() {
	server, err := socketio.NewServer(nil)
	if err != nil {
		panic(err)
	}
	db := database.PostgreSQLConnection()
	defer db.Close()

	pool := cache.CreateRedisPool()
	defer pool.Close()

	games := &rooms{m: make(map[string]*roster.Roster)}
	var dice game.DiceOracle = game.NewLocalDice()

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		return nil
	})

	server.OnEvent("/", "see", func(s socketio.Conn) {
		log.Debug("pinged")
	})

	server.OnEvent("/", "join-game", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		gameId, ok := result["game_id"]
		if !ok {
			log.Warn("join-game without game_id")
			return
		}
		if !queries.VerifyGame(gameId, db) {
			s.Emit("error-message", "Invalid game")
			s.Emit("failed")
			return
		}
		userId, ok := result["user_id"]
		if !ok {
			s.Emit("error-message", "User not authenticated")
			s.Emit("failed")
			return
		}

		user, err := queries.GetUserData(userId, db)
		if err != nil {
			s.Emit("error-message", "User retrieval failed")
			s.Emit("failed")
			return
		}
		if err := queries.CreatePlayer(models.Player{
			Game_id: gameId,
			User_id: userId,
			Wallet:  user.Wallet,
		}, db); err != nil {
			log.WithError(err).Error("failed creating player")
			s.Emit("error-message", "Failed creating player")
			s.Emit("failed")
			return
		}

		ros := games.get(gameId)
		ros.OnPresence(userId, true)

		conn := pool.Get()
		defer conn.Close()
		if err := queries.MirrorPlayerJoin(gameId, userId, &conn); err != nil {
			log.WithError(err).Warn("mirror join failed")
		}

		server.BroadcastToRoom("/", gameId, "player-join", marshalEnvelope(models.Envelope{
			Kind:     models.MsgPresence,
			Presence: &models.PresenceEvent{Player: userId, Joined: true},
		}))
		s.Join(gameId)

		snapshot, _ := json.Marshal(ros.Snapshot())
		s.Emit("joined-game", string(snapshot))
		log.WithFields(log.Fields{"conn": s.ID(), "game": gameId, "players": ros.Len()}).Info("player joined room")
	})

	server.OnEvent("/", "leave-game", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		gameId, userId := result["game_id"], result["user_id"]

		s.Leave(gameId)
		ros, ok := games.lookup(gameId)
		if !ok {
			return
		}
		wasNext := ros.NextTurn(userId)
		ros.OnPresence(userId, false)

		conn := pool.Get()
		defer conn.Close()
		queries.MirrorPlayerLeave(gameId, userId, &conn)

		remaining, err := queries.DeletePlayer(userId, gameId, db)
		if err != nil {
			log.WithError(err).Warn("failed deleting player row")
		}
		if remaining <= 1 {
			queries.CleanupRoom(gameId, &conn)
			games.drop(gameId)
			server.BroadcastToRoom("/", gameId, "game-over")
			return
		}

		server.BroadcastToRoom("/", gameId, "player-left", marshalEnvelope(models.Envelope{
			Kind:     models.MsgPresence,
			Presence: &models.PresenceEvent{Player: userId, Joined: false},
		}))
		if hint, err := queries.TurnHint(gameId, &conn); err == nil && hint == userId {
			queries.MirrorTurnHint(gameId, wasNext, &conn)
			server.BroadcastToRoom("/", gameId, "change-turn", wasNext)
		}
	})

	server.OnEvent("/", "start-game", func(s socketio.Conn, gameId string) {
		players, err := queries.StartGame(gameId, db)
		if err != nil || players == nil {
			s.Emit("error-message", "Unable to start game")
			log.WithError(err).Warn("failed to start game")
			return
		}

		conn := pool.Get()
		defer conn.Close()
		first := players[0].User_id
		queries.MirrorTurnHint(gameId, first, &conn)

		playersJson, _ := json.Marshal(players)
		server.BroadcastToRoom("/", gameId, "game-start", string(playersJson))
		server.BroadcastToRoom("/", gameId, "change-turn", first)
	})

	// roll-dice hosts the roll on the relay: the die comes from the local
	// oracle and the player's engine runs against the roster-held state.
	// Used by clients without their own randomness source.
	server.OnEvent("/", "roll-dice", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		gameId, userId := result["game_id"], result["user_id"]

		ros, ok := games.lookup(gameId)
		if !ok || !ros.Has(userId) {
			s.Emit("error-message", "Join the game before rolling")
			return
		}
		die, err := dice.Roll()
		if err != nil {
			s.Emit("error-message", "Dice oracle unavailable")
			return
		}

		var evt models.RollEvent
		var notice models.EffectNotice
		err = ros.Mutate(userId, func(p *models.PlayerState) error {
			res, err := game.ResolveRoll(p.Position, die)
			if err != nil {
				return err
			}
			evt, notice = game.ApplyEffect(p, res)
			return nil
		})
		if err != nil {
			// An invalid roll must never reach the wire.
			log.WithError(err).WithField("player", userId).Warn("roll refused")
			s.Emit("error-message", err.Error())
			return
		}
		ros.AcceptOwn(evt)

		conn := pool.Get()
		defer conn.Close()
		if err := queries.MirrorRoll(gameId, evt, &conn); err != nil {
			log.WithError(err).Warn("mirror roll failed")
		}
		if notice.Amount != 0 {
			queries.MirrorBalance(gameId, userId, models.PrimaryCurrency, notice.Amount, &conn)
		}

		server.BroadcastToRoom("/", gameId, "roll", marshalEnvelope(models.Envelope{
			Kind: models.MsgRoll,
			Roll: &evt,
		}))
		noticeJson, _ := json.Marshal(notice)
		s.Emit("effect-notice", string(noticeJson))

		next := ros.NextTurn(userId)
		queries.MirrorTurnHint(gameId, next, &conn)
		server.BroadcastToRoom("/", gameId, "change-turn", next)
	})

	// sync-roll relays a roll the player resolved locally against its own
	// oracle. The precomputed position is validated before fan-out; stale and
	// invalid events die here quietly.
	server.OnEvent("/", "sync-roll", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		gameId := result["game_id"]

		env, err := models.DecodeEnvelope([]byte(result["envelope"]))
		if err != nil || env.Kind != models.MsgRoll {
			log.WithError(err).Warn("dropping malformed roll envelope")
			return
		}

		ros, ok := games.lookup(gameId)
		if !ok {
			log.WithField("game", gameId).Warn("dropping roll for unknown room")
			return
		}
		if err := ros.OnRollEvent(*env.Roll); err != nil {
			// Expected under an unordered transport; never surfaced.
			log.WithError(err).Debug("roll event not applied")
			return
		}

		conn := pool.Get()
		defer conn.Close()
		if err := queries.MirrorRoll(gameId, *env.Roll, &conn); err != nil {
			log.WithError(err).Warn("mirror roll failed")
		}

		server.BroadcastToRoom("/", gameId, "roll", marshalEnvelope(env))
		next := ros.NextTurn(env.Roll.Player)
		queries.MirrorTurnHint(gameId, next, &conn)
		server.BroadcastToRoom("/", gameId, "change-turn", next)
	})

	server.OnEvent("/", "request-mint", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		gameId, userId, propertyId := result["game_id"], result["user_id"], result["property_id"]

		ros, ok := games.lookup(gameId)
		if !ok || !ros.Has(userId) {
			s.Emit("error-message", "Join the game before minting")
			return
		}
		err := ros.Mutate(userId, func(p *models.PlayerState) error {
			return game.ConfirmMint(p, propertyId)
		})
		if err != nil {
			s.Emit("error-message", err.Error())
			return
		}

		conn := pool.Get()
		defer conn.Close()
		queries.MirrorBalance(gameId, userId, models.PrimaryCurrency, -game.MintCost, &conn)

		server.BroadcastToRoom("/", gameId, "property-minted", marshalEnvelope(models.Envelope{
			Kind: models.MsgMint,
			Mint: &models.MintEvent{Player: userId, PropertyId: propertyId},
		}))
	})

	server.OnEvent("/", "swap-tokens", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		gameId, userId := result["game_id"], result["user_id"]
		from, to := result["from"], result["to"]
		amount, err := strconv.Atoi(result["amount"])
		if err != nil {
			s.Emit("error-message", "Invalid swap amount")
			return
		}

		ros, ok := games.lookup(gameId)
		if !ok || !ros.Has(userId) {
			s.Emit("error-message", "Join the game before swapping")
			return
		}
		var balances map[string]int
		err = ros.Mutate(userId, func(p *models.PlayerState) error {
			if err := game.Swap(p, from, to, amount); err != nil {
				return err
			}
			balances = p.Clone().Balances
			return nil
		})
		if err != nil {
			s.Emit("error-message", err.Error())
			return
		}

		conn := pool.Get()
		defer conn.Close()
		queries.MirrorBalance(gameId, userId, from, -amount, &conn)
		queries.MirrorBalance(gameId, userId, to, amount, &conn)

		balancesJson, _ := json.Marshal(balances)
		s.Emit("balances", string(balancesJson))
	})

	// room-state serves the mirrored snapshot so a reconnecting client can
	// warm-start its replica before live events resume.
	server.OnEvent("/", "room-state", func(s socketio.Conn, gameId string) {
		conn := pool.Get()
		defer conn.Close()

		snapshot, err := queries.RoomSnapshot(gameId, &conn)
		if err != nil {
			log.WithError(err).Warn("room snapshot failed")
			s.Emit("error-message", "Room state unavailable")
			return
		}
		snapshotJson, _ := json.Marshal(snapshot)
		s.Emit("room-state", string(snapshotJson))

		if size, err := queries.RoomSize(gameId, &conn); err == nil {
			s.Emit("room-size", strconv.Itoa(size))
		}
	})

	server.OnEvent("/", "chat", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		gameId := result["game_id"]

		env, err := models.DecodeEnvelope([]byte(result["envelope"]))
		if err != nil || env.Kind != models.MsgChat {
			log.WithError(err).Warn("dropping malformed chat envelope")
			return
		}
		server.BroadcastToRoom("/", gameId, "chat", marshalEnvelope(env))
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.WithError(e).Error("socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		for _, room := range s.Rooms() {
			server.BroadcastToRoom("/", room, "player-left")
		}
		s.LeaveAll()
	})

	go server.Serve()
	defer server.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{os.Getenv("CLIENT_ORIGIN")},
		AllowCredentials: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	http.ListenAndServe(":8000", c.Handler(mux))
}
