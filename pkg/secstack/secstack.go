// Package secstack defines the boundary to the platform secure-sockets
// provider: the external facility that owns descriptors, performs the TLS
// handshake and moves bytes. This layer never implements any of that; it only
// issues option-set and I/O calls against a Stack.
package secstack

import "fmt"

// Socket option levels and keys understood by the provider. The values
// attached to them are opaque bytes at this layer.
const (
	SolSocket = 1

	OptSecMethod          = 25 // security method, set before any file options
	OptSecPrivateKeyFile  = 26 // private key file name
	OptSecCertificateFile = 27 // certificate chain file name
	OptSecCAFile          = 28 // trust-anchor file name
	OptRecvTimeout        = 20 // receive timeout, milliseconds
)

// The single protocol version this stack generation supports.
const SecMethodTLSv1 = byte(2)

// Errno is a native provider error code. Providers report failures as
// negative codes; the zero value means no error.
type Errno int

func (e Errno) Error() string {
	return fmt.Sprintf("secstack: errno %d", int(e))
}

// Addr identifies a peer or local endpoint at the provider level.
type Addr struct {
	Host string
	Port uint16
}

func (a Addr) String() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// Stack is the provider's call surface. All operations are synchronous and
// blocking; none of them are retried by the callers in this module. Failed
// calls return an Errno (or a wrapping of one) carrying the native code.
type Stack interface {
	// SetSockOpt applies a single option to the descriptor. Atomic per
	// option: the provider either applies the whole value or rejects it.
	SetSockOpt(sd int, level, option int, value []byte) error

	Send(sd int, b []byte) (int, error)
	Recv(sd int, b []byte) (int, error)

	Connect(sd int, addr Addr) error
	Accept(sd int) (int, Addr, error)

	// Close releases the descriptor. Callers must not issue it twice for
	// the same descriptor.
	Close(sd int) error
}
