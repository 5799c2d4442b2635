package ssl

import (
	"sync"
	"time"

	"github.com/lattesec/securesock/pkg/secstack"
	"github.com/lattesec/securesock/pkg/socket"
)

// SecureSocket is a security-configured socket handle. It holds a value copy
// of the wrapped socket's low-level state, so both objects structurally
// describe the same descriptor, and keeps the original socket alive for its
// own lifetime. All stream operations behave exactly as on the plain socket;
// the provider performs the handshake on first I/O.
type SecureSocket struct {
	state socket.State
	stack secstack.Stack
	orig  *socket.Socket

	mu       sync.Mutex
	closed   bool
	closeErr error
}

var _ socket.Stream = (*SecureSocket)(nil)

func newSecureSocket(orig *socket.Socket, cfg *Config) *SecureSocket {
	st := orig.State()
	st.CertRequired = cfg.CertReqs == CertRequired

	return &SecureSocket{
		state: st,
		stack: orig.Stack(),
		orig:  orig,
	}
}

// CertRequired reports whether the provider enforces full peer chain
// validation on this socket.
func (s *SecureSocket) CertRequired() bool {
	return s.state.CertRequired
}

// State returns a copy of the handle's low-level socket state.
func (s *SecureSocket) State() socket.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SecureSocket) Descriptor() int {
	return s.state.SD
}

// Address queries are not security-specific and forward to the wrapped
// socket.
func (s *SecureSocket) LocalAddr() secstack.Addr {
	return s.orig.LocalAddr()
}

func (s *SecureSocket) RemoteAddr() secstack.Addr {
	return s.orig.RemoteAddr()
}

func (s *SecureSocket) Read(b []byte) (int, error) {
	if s.isClosed() {
		return 0, socket.ErrSocketClosed
	}
	return s.stack.Recv(s.state.SD, b)
}

func (s *SecureSocket) Write(b []byte) (int, error) {
	if s.isClosed() {
		return 0, socket.ErrSocketClosed
	}
	return s.stack.Send(s.state.SD, b)
}

func (s *SecureSocket) Connect(addr secstack.Addr) error {
	if s.isClosed() {
		return socket.ErrSocketClosed
	}

	if err := s.stack.Connect(s.state.SD, addr); err != nil {
		return err
	}

	s.mu.Lock()
	s.state.Remote = addr
	s.mu.Unlock()
	return nil
}

// Accept blocks for an inbound connection and returns a new secure handle
// for it. The accepted descriptor inherits this socket's security
// configuration from the provider, so no reconfiguration happens here.
func (s *SecureSocket) Accept() (*SecureSocket, error) {
	if s.isClosed() {
		return nil, socket.ErrSocketClosed
	}

	sd, peer, err := s.stack.Accept(s.state.SD)
	if err != nil {
		return nil, err
	}

	st := s.State()
	st.SD = sd
	st.Remote = peer

	conn, err := socket.New(s.stack, st, s.orig.Name)
	if err != nil {
		return nil, err
	}

	return &SecureSocket{state: st, stack: s.stack, orig: conn}, nil
}

// SetTimeout forwards to the wrapped socket, which applies the timeout on
// the shared descriptor, and records it in the handle's own state copy.
func (s *SecureSocket) SetTimeout(d time.Duration) error {
	if s.isClosed() {
		return socket.ErrSocketClosed
	}

	if err := s.orig.SetTimeout(d); err != nil {
		return err
	}

	s.mu.Lock()
	s.state.Timeout = d
	s.mu.Unlock()
	return nil
}

// Close delegates to the original socket's close path. The descriptor is
// released exactly once no matter how many times Close is called on either
// handle.
func (s *SecureSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.closeErr
	}
	s.closed = true
	s.closeErr = s.orig.Close()
	return s.closeErr
}

func (s *SecureSocket) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
