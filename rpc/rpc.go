package rpc

import (
	"context"
	"errors"
	"net"
	"net/rpc"

	"github.com/wfunc/blackjack/logger"
	"github.com/wfunc/blackjack/models"
	"github.com/wfunc/blackjack/network"
	"github.com/wfunc/blackjack/projection"
	"github.com/wfunc/blackjack/room"
	"github.com/wfunc/blackjack/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
	server   *rpc.Server
}

// NewServer listens on addr. Services are added with Register.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  listener.Addr().String(),
		server:   rpc.NewServer(),
	}, nil
}

func (s *Server) Register(rcvr any) error {
	return s.server.Register(rcvr)
}

// Addr is the bound listener address.
func (s *Server) Addr() string {
	return s.address
}

// Start serves RPC connections until Stop is called.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go s.server.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// QueryService exposes the chain queries and the admin operations.
// Methods follow the net/rpc signature: exported arguments, pointer reply,
// error result.
type QueryService struct {
	node *services.Node
}

func NewQueryService(node *services.Node) *QueryService {
	return &QueryService{node: node}
}

type ChainArgs struct {
	ChainID string
}

type PlayDataArgs struct {
	ChainID  string
	PlayerID string
}

type HistoryArgs struct {
	ChainID string
	Limit   int
}

type AdminArgs struct {
	ChainID string
	Op      string
	Secret  string
}

type InsightReply struct {
	Insight models.Insight
}

type PlayDataReply struct {
	PlayData room.PlayData
}

type HistoryReply struct {
	Games []models.History
}

type LeaderboardReply struct {
	Leaderboard services.LeaderboardView
}

type RoomStatusReply struct {
	Rooms []projection.RoomEntry
}

type PlayerStatusReply struct {
	Players map[string]models.Presence
}

type AnalyticsReply struct {
	Counts map[string]uint64
}

type AdminReply struct {
	OK bool
}

func (q *QueryService) Insight(args *ChainArgs, reply *InsightReply) error {
	app, err := q.node.Application(args.ChainID)
	if err != nil {
		return err
	}
	reply.Insight, err = app.Insight()
	return err
}

func (q *QueryService) PlayData(args *PlayDataArgs, reply *PlayDataReply) error {
	pd, err := q.node.PlayData(args.ChainID, args.PlayerID)
	if err != nil {
		return err
	}
	reply.PlayData = pd
	return nil
}

func (q *QueryService) History(args *HistoryArgs, reply *HistoryReply) error {
	app, err := q.node.Application(args.ChainID)
	if err != nil {
		return err
	}
	reply.Games, err = app.History(args.Limit)
	return err
}

func (q *QueryService) Leaderboard(args *ChainArgs, reply *LeaderboardReply) error {
	app, err := q.node.Application(args.ChainID)
	if err != nil {
		return err
	}
	reply.Leaderboard, err = app.Leaderboard()
	return err
}

func (q *QueryService) RoomStatus(args *ChainArgs, reply *RoomStatusReply) error {
	app, err := q.node.Application(args.ChainID)
	if err != nil {
		return err
	}
	reply.Rooms, err = app.RoomStatus()
	return err
}

func (q *QueryService) PlayerStatus(args *ChainArgs, reply *PlayerStatusReply) error {
	app, err := q.node.Application(args.ChainID)
	if err != nil {
		return err
	}
	reply.Players, err = app.PlayerStatus()
	return err
}

func (q *QueryService) Analytics(args *ChainArgs, reply *AnalyticsReply) error {
	app, err := q.node.Application(args.ChainID)
	if err != nil {
		return err
	}
	reply.Counts, err = app.Analytics()
	return err
}

// Admin runs one leaderboard or analytics admin operation.
func (q *QueryService) Admin(args *AdminArgs, reply *AdminReply) error {
	op, err := network.AdminOperation(network.AdminRequest{Op: args.Op, Secret: args.Secret})
	if err != nil {
		return err
	}
	if err := q.node.Execute(context.Background(), args.ChainID, op); err != nil {
		return err
	}
	reply.OK = true
	return nil
}
