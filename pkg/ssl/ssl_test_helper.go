package ssl

import (
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/lattesec/securesock/pkg/secstack"
	"github.com/lattesec/securesock/pkg/socket"
)

type optCall struct {
	SD     int
	Level  int
	Option int
	Value  []byte
}

// fakeStack records every provider call so tests can assert on the exact
// option sequence. Set failOption to make that option's SetSockOpt fail
// with failErrno.
type fakeStack struct {
	opts []optCall

	failOption int
	failErrno  secstack.Errno

	sent       []byte
	recvData   []byte
	closeCalls int

	nextSD int
}

func newFakeStack() *fakeStack {
	return &fakeStack{failOption: -1, nextSD: 100}
}

func (f *fakeStack) options() []int {
	out := make([]int, 0, len(f.opts))
	for _, c := range f.opts {
		out = append(out, c.Option)
	}
	return out
}

func (f *fakeStack) SetSockOpt(sd int, level, option int, value []byte) error {
	if option == f.failOption {
		return f.failErrno
	}

	v := make([]byte, len(value))
	copy(v, value)
	f.opts = append(f.opts, optCall{SD: sd, Level: level, Option: option, Value: v})
	return nil
}

func (f *fakeStack) Send(sd int, b []byte) (int, error) {
	f.sent = append(f.sent, b...)
	return len(b), nil
}

func (f *fakeStack) Recv(sd int, b []byte) (int, error) {
	n := copy(b, f.recvData)
	f.recvData = f.recvData[n:]
	return n, nil
}

func (f *fakeStack) Connect(sd int, addr secstack.Addr) error {
	return nil
}

func (f *fakeStack) Accept(sd int) (int, secstack.Addr, error) {
	f.nextSD++
	return f.nextSD, secstack.Addr{Host: "10.0.0.2", Port: 40000}, nil
}

func (f *fakeStack) Close(sd int) error {
	f.closeCalls++
	return nil
}

func newFakeSocket(t rapid.TB, stack secstack.Stack) *socket.Socket {
	t.Helper()

	sock, err := socket.New(stack, socket.State{
		SD:     7,
		Family: 2,
		Type:   1,
		Proto:  6,
		Local:  secstack.Addr{Host: "10.0.0.1", Port: 30000},
		Remote: secstack.Addr{Host: "10.0.0.2", Port: 443},
	}, "test-socket")
	require.NoError(t, err, "failed to build plain socket")
	return sock
}
