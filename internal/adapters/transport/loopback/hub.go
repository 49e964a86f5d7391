// Package loopback is an in-process transport. Every peer of a session joins
// one Hub; a replicated message is handed to each bound peer, sender included,
// in the order it was sent.
package loopback

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
)

var (
	ErrPeerExists   = errors.New("peer already joined")
	ErrPeerNotFound = errors.New("peer not joined")
)

type Receiver interface {
	Deliver(msg domain.Message)
}

type member struct {
	peer     domain.PeerID
	receiver Receiver
	held     bool
	queue    []domain.Message
}

// Hub holds the peers of one session and the authority table.
type Hub struct {
	mu      sync.Mutex
	members []*member
	owners  map[domain.Entity]domain.PeerID
}

func NewHub() *Hub {
	return &Hub{owners: map[domain.Entity]domain.PeerID{}}
}

// Join registers peer. Messages reach it once a receiver is bound.
func (h *Hub) Join(peer domain.PeerID) (*Endpoint, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.find(peer) != nil {
		return nil, fmt.Errorf("join %q: %w", peer, ErrPeerExists)
	}
	h.members = append(h.members, &member{peer: peer})
	return &Endpoint{hub: h, peer: peer}, nil
}

// Assign makes peer the authority for entity, replacing any previous owner.
func (h *Hub) Assign(entity domain.Entity, peer domain.PeerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.owners[entity] = peer
}

func (h *Hub) Owner(entity domain.Entity) (domain.PeerID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	peer, ok := h.owners[entity]
	return peer, ok
}

// Hold queues messages for peer instead of delivering them, as a slow link
// would. Release hands the queue over in order.
func (h *Hub) Hold(peer domain.PeerID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	m := h.find(peer)
	if m == nil {
		return fmt.Errorf("hold %q: %w", peer, ErrPeerNotFound)
	}
	m.held = true
	return nil
}

func (h *Hub) Release(peer domain.PeerID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	m := h.find(peer)
	if m == nil {
		return fmt.Errorf("release %q: %w", peer, ErrPeerNotFound)
	}
	m.held = false
	queue := m.queue
	m.queue = nil
	if m.receiver == nil {
		return nil
	}
	for _, msg := range queue {
		m.receiver.Deliver(msg)
	}
	return nil
}

func (h *Hub) bind(peer domain.PeerID, receiver Receiver) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	m := h.find(peer)
	if m == nil {
		return fmt.Errorf("bind %q: %w", peer, ErrPeerNotFound)
	}
	m.receiver = receiver
	return nil
}

// broadcast fans msg out under the hub lock so every peer observes one global
// send order.
func (h *Hub) broadcast(msg domain.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, m := range h.members {
		switch {
		case m.held:
			m.queue = append(m.queue, msg)
		case m.receiver != nil:
			m.receiver.Deliver(msg)
		}
	}
}

func (h *Hub) find(peer domain.PeerID) *member {
	for _, m := range h.members {
		if m.peer == peer {
			return m
		}
	}
	return nil
}

// Endpoint is one peer's view of the hub.
type Endpoint struct {
	hub  *Hub
	peer domain.PeerID
}

var (
	_ ports.Transport = (*Endpoint)(nil)
	_ ports.Authority = (*Endpoint)(nil)
)

func (e *Endpoint) Peer() domain.PeerID { return e.peer }

func (e *Endpoint) Bind(receiver Receiver) error {
	return e.hub.bind(e.peer, receiver)
}

func (e *Endpoint) SendReplicated(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.Sender != "" && msg.Sender != e.peer {
		return fmt.Errorf("send as %q from %q: %w", msg.Sender, e.peer, domain.ErrNotAuthority)
	}

	msg.Sender = e.peer
	e.hub.broadcast(msg)
	return nil
}

func (e *Endpoint) IsAuthority(entity domain.Entity) bool {
	owner, ok := e.hub.Owner(entity)
	return ok && owner == e.peer
}
