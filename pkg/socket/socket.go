// Package socket models the plain socket side of the wrapping layer: a thin
// handle over a provider descriptor whose read/write/close semantics are
// reused unchanged by secure handles built on top of it.
package socket

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/lattesec/log"

	"github.com/lattesec/securesock/pkg/secstack"
)

var (
	ErrSocketClosed = errors.New("socket closed")
	ErrNilStack     = errors.New("stack is required")
)

// State is the low-level socket state owned by the provider descriptor.
// It is a plain value so a secure handle can copy it without taking
// ownership of the original socket.
type State struct {
	SD     int // provider descriptor
	Family uint8
	Type   uint8
	Proto  uint8

	Timeout time.Duration // receive timeout, zero means blocking

	Local  secstack.Addr
	Remote secstack.Addr

	// CertRequired records whether the provider must enforce full peer
	// chain validation. Meaningful only once a socket has been wrapped.
	CertRequired bool
}

// Socket is a plain socket over a provider stack.
type Socket struct {
	Name string // only holds significance in logs

	stack secstack.Stack
	state State

	mu     sync.Mutex
	closed bool
}

func New(stack secstack.Stack, state State, name string) (*Socket, error) {
	if stack == nil {
		return nil, ErrNilStack
	}
	return &Socket{Name: name, stack: stack, state: state}, nil
}

// State returns a copy of the socket's low-level state.
func (s *Socket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stack returns the provider this socket was created on.
func (s *Socket) Stack() secstack.Stack {
	return s.stack
}

func (s *Socket) Descriptor() int {
	return s.state.SD
}

func (s *Socket) LocalAddr() secstack.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Local
}

func (s *Socket) RemoteAddr() secstack.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Remote
}

func (s *Socket) Read(b []byte) (int, error) {
	if s.isClosed() {
		return 0, ErrSocketClosed
	}
	return s.stack.Recv(s.state.SD, b)
}

func (s *Socket) Write(b []byte) (int, error) {
	if s.isClosed() {
		return 0, ErrSocketClosed
	}
	return s.stack.Send(s.state.SD, b)
}

func (s *Socket) Connect(addr secstack.Addr) error {
	if s.isClosed() {
		return ErrSocketClosed
	}

	if err := s.stack.Connect(s.state.SD, addr); err != nil {
		log.Debug().
			WithMeta("socket", s.Name).
			WithMeta("peer", addr.String()).
			Msgf("connect failed: %v", err).
			Send()
		return err
	}

	s.mu.Lock()
	s.state.Remote = addr
	s.mu.Unlock()
	return nil
}

// Accept blocks for an inbound connection and returns a new plain socket
// for it, sharing this socket's stack, family, type and proto.
func (s *Socket) Accept() (*Socket, error) {
	if s.isClosed() {
		return nil, ErrSocketClosed
	}

	sd, peer, err := s.stack.Accept(s.state.SD)
	if err != nil {
		return nil, err
	}

	st := s.State()
	st.SD = sd
	st.Remote = peer
	return New(s.stack, st, s.Name)
}

// SetTimeout applies a receive timeout through the provider and records it
// in the socket state. A zero duration restores blocking reads.
func (s *Socket) SetTimeout(d time.Duration) error {
	if s.isClosed() {
		return ErrSocketClosed
	}

	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(d.Milliseconds()))
	if err := s.stack.SetSockOpt(s.state.SD, secstack.SolSocket, secstack.OptRecvTimeout, buf); err != nil {
		return err
	}

	s.mu.Lock()
	s.state.Timeout = d
	s.mu.Unlock()
	return nil
}

// Close releases the descriptor through the provider. Closing an already
// closed socket is a no-op so the descriptor is never released twice.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	log.Debug().
		WithMeta("socket", s.Name).
		WithMetaf("sd", "%d", s.state.SD).
		Msg("closing socket").
		Send()
	return s.stack.Close(s.state.SD)
}

func (s *Socket) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
