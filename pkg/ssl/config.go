package ssl

import (
	"errors"
	"fmt"
)

var ErrInvalidArguments = errors.New("invalid arguments")

// Peer-certificate verification policy.
type CertReqs uint8

const (
	CertNone     CertReqs = iota // no peer verification
	CertOptional                 // peer chain checked if offered, not enforced at the stack level
	CertRequired                 // full chain validation enforced by the provider
)

func (r CertReqs) String() string {
	switch r {
	case CertNone:
		return "none"
	case CertOptional:
		return "optional"
	case CertRequired:
		return "required"
	default:
		return "unknown"
	}
}

// Config is the wrap request. File paths are opaque caller-supplied strings;
// existence is the provider's concern and checked only when the file option
// is applied.
type Config struct {
	Name string `yaml:"name"` // only holds significance in logs

	Keyfile    string   `yaml:"keyfile"`
	Certfile   string   `yaml:"certfile"`
	ServerSide bool     `yaml:"server_side"`
	CertReqs   CertReqs `yaml:"cert_reqs"`
	CACerts    string   `yaml:"ca_certs"`
}

// Validate checks the cross-field rules before any provider call is made.
// Deterministic and side-effect free.
func (c *Config) Validate() error {
	if c.ServerSide && (c.Keyfile == "" || c.Certfile == "") {
		return fmt.Errorf("%w: server side requires both keyfile and certfile", ErrInvalidArguments)
	}
	if c.CertReqs != CertNone && c.CACerts == "" {
		return fmt.Errorf("%w: cert_reqs %s requires ca_certs", ErrInvalidArguments, c.CertReqs)
	}
	return nil
}
