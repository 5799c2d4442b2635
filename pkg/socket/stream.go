package socket

import (
	"time"

	"github.com/lattesec/securesock/pkg/secstack"
)

// Stream is the operation set shared by plain and secure sockets. Secure
// handles implement it by composing over the same underlying state, so
// downstream I/O code paths never need to know which one they hold.
type Stream interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error

	Connect(addr secstack.Addr) error
	SetTimeout(d time.Duration) error

	LocalAddr() secstack.Addr
	RemoteAddr() secstack.Addr
}

var _ Stream = (*Socket)(nil)
