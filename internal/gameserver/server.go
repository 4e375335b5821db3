// Package gameserver owns the TCP accept loop and per-connection read loop:
// accepting a socket, running the handshake, framing/decrypting inbound
// packets, and handing them to the dispatcher. Everything past framing
// (what an opcode means) lives in the handler table built by main.
package gameserver

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/wydcore/gameserver/internal/config"
	"github.com/wydcore/gameserver/internal/dispatch"
	"github.com/wydcore/gameserver/internal/flood"
	"github.com/wydcore/gameserver/internal/protocol"
	"github.com/wydcore/gameserver/internal/session"
)

// protocolVersion is the wire protocol version advertised in the handshake
// KeyPacket. Bumping it is a deliberate, coordinated client/server change.
const protocolVersion = 1

const defaultReadBufSize = 8192

// Server accepts game client connections and drives each one through the
// framing/crypto/dispatch pipeline. It owns no game logic itself.
type Server struct {
	cfg        config.GameServer
	registry   *session.Registry
	dispatcher *dispatch.Dispatcher
	flood      *flood.Guard
	classify   func(opcode uint16) flood.Class

	mu       sync.Mutex
	listener net.Listener
}

// New creates a gameserver bound to the given session registry, opcode
// dispatcher, and flood guard — all constructed by main and shared with the
// rest of the process (broadcast router, spawn/AI managers, persistence).
// classify maps an inbound opcode to its flood-control bucket; a nil
// classify treats every opcode as flood.ClassDefault.
func New(cfg config.GameServer, registry *session.Registry, dispatcher *dispatch.Dispatcher, guard *flood.Guard, classify func(opcode uint16) flood.Class) *Server {
	return &Server{cfg: cfg, registry: registry, dispatcher: dispatcher, flood: guard, classify: classify}
}

// Run listens on cfg.BindAddress:cfg.Port and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is canceled. Exposed
// separately so tests can supply an in-memory listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	slog.Info("game server listening", "address", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			slog.Error("accept failed", "error", err)
			continue
		}

		host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
		if s.flood != nil && s.flood.IsBanned(host) {
			conn.Close()
			continue
		}
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			_ = tcpConn.SetKeepAlive(true)
			_ = tcpConn.SetKeepAlivePeriod(30 * time.Second)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
	wg.Wait()
	return nil
}

// handleConnection runs one connection's full lifecycle: accept, handshake,
// read loop, teardown. It never returns until the connection is closed.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sess := s.registry.Accept(func(id uint16) *session.Session {
		return session.New(id, conn, s.cfg.SendQueueSize, s.cfg.WriteTimeout)
	})

	key := make([]byte, 16)
	if _, err := rand.Read(key); err != nil {
		slog.Error("generating session key", "error", err)
		s.registry.Remove(sess.ID())
		return
	}
	sess.Crypt().SetKey(key)

	keyPkt := protocol.NewKeyPacket(protocolVersion, key)
	keyData, err := keyPkt.Write()
	if err != nil {
		slog.Error("writing KeyPacket", "error", err)
		s.registry.Remove(sess.ID())
		return
	}
	if _, err := conn.Write(keyData); err != nil {
		slog.Error("sending KeyPacket", "error", err)
		s.registry.Remove(sess.ID())
		return
	}
	_ = sess.Transition(session.StateHandshakeSent)

	go sess.WritePump()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	slog.Info("session accepted", "session", sess.ID(), "ip", sess.IP())

	s.readLoop(ctx, sess)
	close(done)

	s.dispatcher.CloseSession(sess.ID())
	if s.flood != nil {
		s.flood.Forget(sess.ID())
	}
	s.registry.Remove(sess.ID())
	slog.Info("session closed", "session", sess.ID())
}

// readLoop reads, frames, verifies, decrypts, and dispatches packets until
// the connection errs out or the session transitions to Closing/Closed.
func (s *Server) readLoop(ctx context.Context, sess *session.Session) {
	readTimeout := s.cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 120 * time.Second
	}

	buf := newConnBuffer(defaultReadBufSize)

	for {
		if sess.State() == session.StateClosing || sess.State() == session.StateClosed {
			return
		}

		hdr, _, _, ok, err := protocol.Frame(buf.Bytes())
		if err != nil {
			slog.Warn("bad frame, closing", "session", sess.ID(), "error", err)
			if s.flood != nil {
				s.flood.RecordInvalidPacket()
			}
			sess.CloseAsync()
			return
		}
		if ok {
			// Dispatch runs the handler asynchronously on the session's
			// worker, so the packet must be copied out of buf before the
			// next read overwrites this backing array.
			owned := make([]byte, hdr.Size)
			copy(owned, buf.Bytes()[:hdr.Size])
			s.handlePacket(ctx, sess, hdr, owned, owned[protocol.HeaderSize:])
			buf.Consume(int(hdr.Size))
			continue
		}

		slice, err := buf.WriteSlice()
		if err != nil {
			slog.Warn("receive buffer overflow, closing", "session", sess.ID(), "error", err)
			if s.flood != nil {
				s.flood.RecordInvalidPacket()
			}
			sess.CloseAsync()
			return
		}

		if err := sess.Conn().SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return
		}
		n, err := sess.Conn().Read(slice)
		if n > 0 {
			buf.Commit(n)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Debug("read error", "session", sess.ID(), "error", err)
			}
			return
		}
	}
}

// handlePacket verifies, decrypts, and dispatches one fully-framed packet.
// packet is the whole header+payload slice (for checksum verification);
// payload is the subslice after the header (what gets decrypted and
// handed to the dispatcher).
func (s *Server) handlePacket(ctx context.Context, sess *session.Session, hdr protocol.Header, packet, payload []byte) {
	if err := protocol.VerifyChecksum(packet, hdr); err != nil {
		slog.Warn("checksum failure, closing", "session", sess.ID(), "error", err)
		if s.flood != nil {
			s.flood.RecordChecksumError()
		}
		sess.CloseAsync()
		return
	}

	sess.Crypt().Decrypt(payload)
	sess.OnInboundPacket()

	if s.flood != nil {
		class := flood.ClassDefault
		if s.classify != nil {
			class = s.classify(hdr.Opcode)
		}
		ok, banned := s.flood.Allow(sess.ID(), class)
		if !ok {
			if banned {
				s.flood.Ban(sess.IP())
				sess.CloseAsync()
			}
			return
		}
	}

	err := s.dispatcher.Dispatch(ctx, sess, hdr.Opcode, payload, nil)
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, dispatch.ErrUnknownOpcode), errors.Is(err, dispatch.ErrWrongState):
		slog.Debug("dispatch rejected packet", "session", sess.ID(), "opcode", hdr.Opcode, "error", err)
		if s.flood != nil {
			s.flood.RecordInvalidPacket()
		}
		sess.CloseAsync()
	default:
		slog.Error("dispatch error", "session", sess.ID(), "opcode", hdr.Opcode, "error", err)
	}
}
