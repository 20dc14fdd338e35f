package message

import (
	"fmt"
	"sync"

	"cogentcore.org/core/base/errors"
	"github.com/Carmen-Shannon/oxy-spine/common"
)

// ErrInvalidSocket is returned by Post when the receiver socket does not exist.
var ErrInvalidSocket = errors.New("message: invalid socket")

// URL addresses a message receiver: a socket (world), a path (scene node) and a
// fragment (component). A zero fragment addresses every component of the node.
type URL struct {
	Socket   uint64
	Path     uint64
	Fragment uint64
}

// Valid reports whether u names a socket.
func (u URL) Valid() bool {
	return u.Socket != 0
}

// String formats u for logs.
func (u URL) String() string {
	return fmt.Sprintf("%x:%x#%x", u.Socket, u.Path, u.Fragment)
}

// Message is a posted payload with its addresses.
type Message struct {
	Sender   URL
	Receiver URL
	Data     any
}

// socket is a named message queue.
type socket struct {
	name  string
	queue []Message
}

// bus is the implementation of the Bus interface.
type bus struct {
	mu      *sync.Mutex
	sockets map[uint64]*socket
}

// Bus delivers messages between sockets. Posting only queues; messages are handed to
// receivers when their socket is dispatched. Bus is safe for concurrent use.
type Bus interface {
	// NewSocket registers a socket under the hash of name.
	//
	// Parameters:
	//   - name: the socket name
	//
	// Returns:
	//   - uint64: the socket id
	//   - error: an error if the socket already exists
	NewSocket(name string) (uint64, error)

	// DeleteSocket removes a socket and drops its pending messages.
	//
	// Parameters:
	//   - id: the socket id
	DeleteSocket(id uint64)

	// Post queues data for receiver.
	//
	// Parameters:
	//   - sender: the sender address (may be zero)
	//   - receiver: the receiver address
	//   - data: the payload
	//
	// Returns:
	//   - error: ErrInvalidSocket if the receiver socket does not exist
	Post(sender, receiver URL, data any) error

	// Dispatch hands every pending message of a socket to fn in posting order.
	// Messages posted by fn are delivered on the next Dispatch.
	//
	// Parameters:
	//   - id: the socket id
	//   - fn: the handler
	//
	// Returns:
	//   - int: the number of messages dispatched
	Dispatch(id uint64, fn func(msg *Message)) int
}

var _ Bus = &bus{}

// NewBus creates an empty Bus.
//
// Returns:
//   - Bus: the bus
func NewBus() Bus {
	return &bus{
		mu:      &sync.Mutex{},
		sockets: make(map[uint64]*socket),
	}
}

func (b *bus) NewSocket(name string) (uint64, error) {
	id := common.HashString64(name)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.sockets[id]; ok {
		return 0, fmt.Errorf("message: socket %q already exists", name)
	}
	b.sockets[id] = &socket{name: name}
	return id, nil
}

func (b *bus) DeleteSocket(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sockets, id)
}

func (b *bus) Post(sender, receiver URL, data any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sockets[receiver.Socket]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidSocket, receiver)
	}
	s.queue = append(s.queue, Message{Sender: sender, Receiver: receiver, Data: data})
	return nil
}

func (b *bus) Dispatch(id uint64, fn func(msg *Message)) int {
	b.mu.Lock()
	s, ok := b.sockets[id]
	if !ok {
		b.mu.Unlock()
		return 0
	}
	pending := s.queue
	s.queue = nil
	b.mu.Unlock()

	for i := range pending {
		fn(&pending[i])
	}
	return len(pending)
}
