package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/wfunc/blackjack/broadcast"
	"github.com/wfunc/blackjack/config"
	"github.com/wfunc/blackjack/logger"
	"github.com/wfunc/blackjack/message"
	"github.com/wfunc/blackjack/monitor"
	"github.com/wfunc/blackjack/network"
	blackjackrpc "github.com/wfunc/blackjack/rpc"
	"github.com/wfunc/blackjack/services"
	"github.com/wfunc/blackjack/session"
)

const (
	heartbeatInterval = 30 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type GameServer struct {
	cfg            config.ServerConfig
	node           *services.Node
	monitor        *monitor.Monitor
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	broadcaster    *broadcast.RoomBroadcaster
	heartbeat      time.Duration
}

func NewGameServer(cfg config.ServerConfig, node *services.Node, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		cfg:            cfg,
		node:           node,
		monitor:        mon,
		sessionManager: session.NewManager(),
		heartbeat:      heartbeatInterval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}
	s.broadcaster = broadcast.NewRoomBroadcaster(node, s.sessionManager)
	return s
}

// Handler serves the websocket endpoint. Clients pick their chain with
// /ws?chain=<id>.
func (s *GameServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start runs the websocket, RPC and metrics listeners until ctx is done or
// one of them fails.
func (s *GameServer) Start(ctx context.Context) error {
	rpcServer, err := blackjackrpc.NewServer(s.cfg.RPCAddress)
	if err != nil {
		return err
	}
	if err := rpcServer.Register(blackjackrpc.NewQueryService(s.node)); err != nil {
		rpcServer.Stop()
		return err
	}

	servers := []*http.Server{{Addr: s.cfg.HTTPAddress, Handler: s.Handler()}}
	if s.monitor != nil && s.cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.monitor.Handler())
		servers = append(servers, &http.Server{Addr: s.cfg.MetricsAddress, Handler: mux})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rpcServer.Start()
		return nil
	})
	for _, srv := range servers {
		g.Go(func() error {
			logger.Log.Infof("HTTP server listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		logger.Log.Info("Shutting down game server")
		rpcServer.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			srv.Shutdown(shutdownCtx)
		}
		for _, sess := range s.sessionManager.All() {
			sess.Close()
		}
		return nil
	})
	return g.Wait()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	chainID := r.URL.Query().Get("chain")
	if _, err := s.node.Application(chainID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(r.Context(), chainID, conn)
}

func (s *GameServer) handleConnection(ctx context.Context, chainID string, conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(s.heartbeat)
	sess := session.NewSession(uuid.New().String(), chainID, wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlineSessions()

	logger.Log.Infow("New connection", "remote", wsConn.RemoteAddr(), "session", sess.GetID(), "chain", chainID)

	defer func() {
		logger.Log.Infow("Connection closed", "remote", wsConn.RemoteAddr(), "session", sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlineSessions()
		wsConn.Close()
	}()

	ctx = context.WithoutCancel(ctx)
	for {
		packet, err := wsConn.ReadPacket()
		if err != nil {
			return
		}
		s.handlePacket(ctx, sess, packet)
	}
}

func (s *GameServer) handlePacket(ctx context.Context, sess *session.Session, packet *network.Packet) {
	sess.Touch()
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
	case network.MsgTypeWatch:
		s.handleWatch(sess, packet)
	default:
		s.handleOperation(ctx, sess, packet)
	}
}

func (s *GameServer) handleWatch(sess *session.Session, packet *network.Packet) {
	var req network.WatchRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.reply(sess, packet.MsgID, err)
		return
	}
	sess.Bind(req.PlayerID)
	err := s.broadcaster.PushView(sess)
	s.reply(sess, packet.MsgID, err)
}

func (s *GameServer) handleOperation(ctx context.Context, sess *session.Session, packet *network.Packet) {
	op, err := network.DecodeOperation(packet)
	if err == nil {
		err = s.node.Execute(ctx, sess.ChainID, op)
	}
	s.reply(sess, packet.MsgID, err)
	if err != nil {
		logger.Log.Debugw("operation rejected", "session", sess.GetID(), "chain", sess.ChainID, "msg_id", packet.MsgID, "error", err)
		return
	}

	if join, ok := op.(message.Join); ok {
		sess.Bind(join.PlayerID)
	}
	if _, ok := op.(message.AdminOperation); ok {
		return
	}
	if err := s.broadcaster.PushViews(sess.ChainID); err != nil {
		logger.Log.Warnw("failed to push views", "chain", sess.ChainID, "error", err)
	}
}

func (s *GameServer) reply(sess *session.Session, msgID uint16, err error) {
	res := network.Result{MsgID: msgID, OK: err == nil}
	if err != nil {
		res.Error = err.Error()
	}
	data, _ := json.Marshal(res)
	sess.Send(network.MsgTypeResult, data)
}
