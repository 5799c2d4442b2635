// Package ssl upgrades an already-open plain socket into a TLS-protected one
// by configuring the underlying secure-sockets provider. The handshake itself
// is the provider's business and happens lazily on first I/O; this layer owns
// argument validation, the fixed option-set sequence and the composition of
// the secure handle.
package ssl

import (
	"errors"
	"fmt"

	"github.com/lattesec/log"

	"github.com/lattesec/securesock/pkg/secstack"
	"github.com/lattesec/securesock/pkg/socket"
)

// ConfigError reports the first provider option-set call that was rejected.
// The provider's error is carried unchanged and reachable via Unwrap.
type ConfigError struct {
	Option int
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ssl: setsockopt %s rejected: %v", optionName(e.Option), e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Errno returns the provider's native code, or zero when the provider
// reported something that is not a secstack.Errno.
func (e *ConfigError) Errno() secstack.Errno {
	var code secstack.Errno
	if errors.As(e.Err, &code) {
		return code
	}
	return 0
}

func optionName(option int) string {
	switch option {
	case secstack.OptSecMethod:
		return "secmethod"
	case secstack.OptSecPrivateKeyFile:
		return "keyfile"
	case secstack.OptSecCertificateFile:
		return "certfile"
	case secstack.OptSecCAFile:
		return "cafile"
	default:
		return fmt.Sprintf("option %d", option)
	}
}

// WrapSocket upgrades sock into a secure socket per cfg. The original socket
// keeps describing the same descriptor but callers must not use it for I/O
// once wrapping succeeds; the returned handle owns the close from then on.
//
// On a rejected option the sequence stops where it failed and the socket is
// left partially configured. No rollback is attempted: callers should discard
// the socket and build a fresh one.
func WrapSocket(sock *socket.Socket, cfg *Config) (*SecureSocket, error) {
	if sock == nil {
		return nil, fmt.Errorf("%w: socket is required", ErrInvalidArguments)
	}
	if cfg == nil {
		cfg = &Config{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := configure(sock, cfg); err != nil {
		return nil, err
	}

	return newSecureSocket(sock, cfg), nil
}

// configure applies the security options one at a time, in fixed order:
// method, keyfile, certfile, CA file. Some providers are order-sensitive, so
// the method always goes first. The CA file is only installed when the policy
// is CertRequired; CertOptional is accepted but deliberately not enforced at
// the stack level.
func configure(sock *socket.Socket, cfg *Config) error {
	stack := sock.Stack()
	sd := sock.Descriptor()

	apply := func(option int, value []byte) error {
		if err := stack.SetSockOpt(sd, secstack.SolSocket, option, value); err != nil {
			log.Error().
				WithMeta("socket", cfg.Name).
				WithMetaf("sd", "%d", sd).
				WithMeta("option", optionName(option)).
				Msgf("provider rejected option: %v", err).
				Send()
			return &ConfigError{Option: option, Err: err}
		}

		log.Debug().
			WithMeta("socket", cfg.Name).
			WithMetaf("sd", "%d", sd).
			WithMeta("option", optionName(option)).
			Msg("option applied").
			Send()
		return nil
	}

	if err := apply(secstack.OptSecMethod, []byte{secstack.SecMethodTLSv1}); err != nil {
		return err
	}
	if cfg.Keyfile != "" {
		if err := apply(secstack.OptSecPrivateKeyFile, []byte(cfg.Keyfile)); err != nil {
			return err
		}
	}
	if cfg.Certfile != "" {
		if err := apply(secstack.OptSecCertificateFile, []byte(cfg.Certfile)); err != nil {
			return err
		}
	}
	if cfg.CACerts != "" && cfg.CertReqs == CertRequired {
		if err := apply(secstack.OptSecCAFile, []byte(cfg.CACerts)); err != nil {
			return err
		}
	}

	return nil
}
