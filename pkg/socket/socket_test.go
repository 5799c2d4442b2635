package socket

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattesec/securesock/pkg/secstack"
)

type stubStack struct {
	optCalls   []int
	sent       []byte
	recvData   []byte
	closeCalls int
	lastOptVal []byte
	nextSD     int
}

func (s *stubStack) SetSockOpt(sd int, level, option int, value []byte) error {
	s.optCalls = append(s.optCalls, option)
	s.lastOptVal = append([]byte(nil), value...)
	return nil
}

func (s *stubStack) Send(sd int, b []byte) (int, error) {
	s.sent = append(s.sent, b...)
	return len(b), nil
}

func (s *stubStack) Recv(sd int, b []byte) (int, error) {
	n := copy(b, s.recvData)
	s.recvData = s.recvData[n:]
	return n, nil
}

func (s *stubStack) Connect(sd int, addr secstack.Addr) error {
	return nil
}

func (s *stubStack) Accept(sd int) (int, secstack.Addr, error) {
	s.nextSD++
	return s.nextSD, secstack.Addr{Host: "192.168.1.9", Port: 51000}, nil
}

func (s *stubStack) Close(sd int) error {
	s.closeCalls++
	return nil
}

func newTestSocket(t *testing.T, stack secstack.Stack) *Socket {
	t.Helper()

	sock, err := New(stack, State{SD: 3, Family: 2, Type: 1, Proto: 6}, "stub")
	require.NoError(t, err)
	return sock
}

func TestNew_NilStack(t *testing.T) {
	_, err := New(nil, State{}, "nil")
	assert.ErrorIs(t, err, ErrNilStack)
}

func TestSocket_ReadWrite(t *testing.T) {
	stack := &stubStack{recvData: []byte("hello")}
	sock := newTestSocket(t, stack)

	n, err := sock.Write([]byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("hi"), stack.sent)

	buf := make([]byte, 16)
	n, err = sock.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestSocket_SetTimeout(t *testing.T) {
	stack := &stubStack{}
	sock := newTestSocket(t, stack)

	require.NoError(t, sock.SetTimeout(2*time.Second))

	require.Equal(t, []int{secstack.OptRecvTimeout}, stack.optCalls)
	assert.Equal(t, uint32(2000), binary.LittleEndian.Uint32(stack.lastOptVal))
	assert.Equal(t, 2*time.Second, sock.State().Timeout)
}

func TestSocket_Connect(t *testing.T) {
	stack := &stubStack{}
	sock := newTestSocket(t, stack)

	peer := secstack.Addr{Host: "10.1.1.1", Port: 8883}
	require.NoError(t, sock.Connect(peer))
	assert.Equal(t, peer, sock.RemoteAddr())
}

func TestSocket_Accept(t *testing.T) {
	stack := &stubStack{nextSD: 10}
	sock := newTestSocket(t, stack)

	conn, err := sock.Accept()
	require.NoError(t, err)

	assert.Equal(t, 11, conn.Descriptor())
	assert.NotEqual(t, sock.Descriptor(), conn.Descriptor())
	assert.Equal(t, sock.State().Proto, conn.State().Proto)
}

func TestSocket_CloseIdempotent(t *testing.T) {
	stack := &stubStack{}
	sock := newTestSocket(t, stack)

	assert.NoError(t, sock.Close())
	assert.NoError(t, sock.Close())
	assert.Equal(t, 1, stack.closeCalls)

	_, err := sock.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrSocketClosed)
	_, err = sock.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrSocketClosed)
	assert.ErrorIs(t, sock.SetTimeout(time.Second), ErrSocketClosed)
	assert.ErrorIs(t, sock.Connect(secstack.Addr{}), ErrSocketClosed)
}
