package session

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wydcore/gameserver/internal/crypto"
	"github.com/wydcore/gameserver/internal/model"
	"github.com/wydcore/gameserver/internal/protocol"
)

const (
	defaultSendQueueSize = 4096
	defaultWriteTimeout  = 5 * time.Second

	// HandshakeTimeout bounds Accepted -> HandshakeSent -> AwaitingAuth.
	HandshakeTimeout = 5 * time.Second
	// IdleTimeout closes a session with no inbound traffic for this long.
	IdleTimeout = 60 * time.Second
)

// Session is one connected client: its socket, wire crypto, lifecycle
// state, and async write queue. The write side follows the same
// single-writer-goroutine/buffered-channel pattern throughout: only
// WritePump ever calls conn.Write.
type Session struct {
	id   uint16 // wire client_id, reassigned into every outbound packet
	conn net.Conn
	ip   string

	state atomic.Int32

	crypt    *crypto.GameCrypt
	outSeed  atomic.Uint32 // obfuscation seed, this connection's outbound direction
	inSeed   atomic.Uint32 // expected seed, inbound direction

	lastActivity atomic.Int64 // unix nanos of last inbound packet

	mu          sync.RWMutex
	accountName string
	characterID int64
	player      *model.Player

	sendCh    chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once

	writeTimeout time.Duration
}

// New wraps an accepted connection as a fresh session in StateAccepted.
func New(id uint16, conn net.Conn, sendQueueSize int, writeTimeout time.Duration) *Session {
	if sendQueueSize <= 0 {
		sendQueueSize = defaultSendQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())

	s := &Session{
		id:           id,
		conn:         conn,
		ip:           host,
		crypt:        crypto.NewGameCrypt(),
		sendCh:       make(chan []byte, sendQueueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: writeTimeout,
	}
	s.state.Store(int32(StateAccepted))
	s.touch()
	return s
}

func (s *Session) ID() uint16        { return s.id }
func (s *Session) Conn() net.Conn    { return s.conn }
func (s *Session) IP() string        { return s.ip }
func (s *Session) Crypt() *crypto.GameCrypt { return s.crypt }

func (s *Session) State() State { return State(s.state.Load()) }

// Transition moves the session to `to`, failing if the edge isn't legal for
// the lifecycle FSM. Closing/Closed are reachable from (almost) any state.
func (s *Session) Transition(to State) error {
	for {
		from := State(s.state.Load())
		if !CanTransition(from, to) {
			return ErrInvalidTransition{From: from, To: to}
		}
		if s.state.CompareAndSwap(int32(from), int32(to)) {
			return nil
		}
	}
}

func (s *Session) touch() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// Idle reports whether this session has had no inbound traffic for longer
// than IdleTimeout.
func (s *Session) Idle() bool {
	return s.ElapsedSinceActivity() > IdleTimeout
}

// ElapsedSinceActivity returns how long it has been since the last inbound
// packet (or since the session was created, if none has arrived yet).
func (s *Session) ElapsedSinceActivity() time.Duration {
	last := time.Unix(0, s.lastActivity.Load())
	return time.Since(last)
}

func (s *Session) AccountName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountName
}

func (s *Session) SetAccountName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountName = name
}

func (s *Session) CharacterID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.characterID
}

func (s *Session) SetCharacterID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characterID = id
}

func (s *Session) Player() *model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.player
}

func (s *Session) SetPlayer(p *model.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = p
}

// OnInboundPacket records an inbound packet's framing counters: it touches
// the idle clock and advances the expected inbound obfuscation seed by one,
// matching the per-direction, per-packet seed advance.
func (s *Session) OnInboundPacket() {
	s.touch()
	s.inSeed.Add(1)
}

// NextOutboundSeed advances and returns the outbound obfuscation seed.
func (s *Session) NextOutboundSeed() uint8 {
	return uint8(s.outSeed.Add(1))
}

// Send queues a framed packet for async delivery, resealing it with this
// session's client id first. Non-blocking: a full queue means a slow
// client, so the session is closed rather than blocking the caller
// (SendOverflow, per the resource-error taxonomy).
func (s *Session) Send(packet []byte) error {
	sealed := protocol.AssignClientID(packet, s.id)
	select {
	case s.sendCh <- sealed:
		return nil
	default:
		slog.Warn("session send queue full, closing", "session", s.id, "ip", s.ip)
		s.CloseAsync()
		return fmt.Errorf("session %d: send overflow", s.id)
	}
}

// WritePump is the single writer goroutine for this session's socket.
// Run it once, in its own goroutine, right after New.
func (s *Session) WritePump() {
	bufs := make(net.Buffers, 0, 32)

	defer func() {
		for {
			select {
			case <-s.sendCh:
			default:
				return
			}
		}
	}()

	for {
		select {
		case pkt, ok := <-s.sendCh:
			if !ok {
				return
			}
			if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
				return
			}

			queued := len(s.sendCh)
			if queued == 0 {
				if _, err := s.conn.Write(pkt); err != nil {
					slog.Warn("session write failed", "session", s.id, "error", err)
					return
				}
				continue
			}

			bufs = bufs[:0]
			bufs = append(bufs, pkt)
			for range queued {
				bufs = append(bufs, <-s.sendCh)
			}
			if _, err := bufs.WriteTo(s.conn); err != nil {
				slog.Warn("session batch write failed", "session", s.id, "error", err)
				return
			}

		case <-s.closeCh:
			return
		}
	}
}

// CloseAsync signals the write pump to stop without blocking the caller.
// Safe to call more than once.
func (s *Session) CloseAsync() {
	s.closeOnce.Do(func() {
		_ = s.Transition(StateClosing)
		close(s.closeCh)
	})
}

// Close closes the underlying connection and stops the write pump.
func (s *Session) Close() error {
	s.CloseAsync()
	_ = s.Transition(StateClosed)
	return s.conn.Close()
}
