// Package bus passes fire-and-forget messages between window contexts over
// named channels. Delivery is FIFO per subscription and never acknowledged.
package bus

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultMailboxSize = 64

// Message is one delivery on a channel.
type Message struct {
	// ID is a time-ordered UUID. It names the message in log lines about
	// drops and failed deliveries.
	ID      string
	Channel Channel
	Payload any
	SentAt  time.Time
}

// Handler consumes messages of one subscription, one at a time.
type Handler func(Message)

type mailbox struct {
	channel Channel
	queue   chan Message
	done    chan struct{}
	once    sync.Once
}

// Bus routes messages to subscribers.
type Bus struct {
	mu          sync.RWMutex
	routes      map[Channel][]*mailbox
	mailboxSize int
	closed      bool
	wg          sync.WaitGroup
}

// New creates a bus whose subscriptions buffer up to mailboxSize messages.
func New(mailboxSize int) *Bus {
	if mailboxSize <= 0 {
		mailboxSize = defaultMailboxSize
	}
	return &Bus{
		routes:      make(map[Channel][]*mailbox),
		mailboxSize: mailboxSize,
	}
}

// Subscribe registers handler on channel. The returned func removes it.
func (bus *Bus) Subscribe(channel Channel, handler Handler) func() {
	box := &mailbox{
		channel: channel,
		queue:   make(chan Message, bus.mailboxSize),
		done:    make(chan struct{}),
	}

	bus.mu.Lock()
	if bus.closed {
		bus.mu.Unlock()
		return func() {}
	}
	bus.routes[channel] = append(bus.routes[channel], box)
	bus.wg.Add(1)
	bus.mu.Unlock()

	go bus.deliver(box, handler)

	return func() {
		bus.remove(box)
	}
}

// Publish sends payload to every subscriber of channel without waiting.
// A subscriber whose mailbox is full misses the message.
func (bus *Bus) Publish(channel Channel, payload any) {
	message := Message{
		ID:      newMessageID(),
		Channel: channel,
		Payload: payload,
		SentAt:  time.Now(),
	}

	bus.mu.RLock()
	defer bus.mu.RUnlock()
	if bus.closed {
		log.Printf("bus: dropped %s message %s, bus closed", channel, message.ID)
		return
	}
	for _, box := range bus.routes[channel] {
		select {
		case box.queue <- message:
		default:
			log.Printf("bus: dropped %s message %s, mailbox full", channel, message.ID)
		}
	}
}

// Close stops every subscription and waits for in-flight handlers.
func (bus *Bus) Close() {
	bus.mu.Lock()
	if bus.closed {
		bus.mu.Unlock()
		return
	}
	bus.closed = true
	routes := bus.routes
	bus.routes = make(map[Channel][]*mailbox)
	bus.mu.Unlock()

	for _, boxes := range routes {
		for _, box := range boxes {
			box.stop()
		}
	}
	bus.wg.Wait()
}

func (bus *Bus) remove(target *mailbox) {
	bus.mu.Lock()
	boxes := bus.routes[target.channel]
	for index, box := range boxes {
		if box == target {
			bus.routes[target.channel] = append(boxes[:index:index], boxes[index+1:]...)
			break
		}
	}
	bus.mu.Unlock()
	target.stop()
}

func (bus *Bus) deliver(box *mailbox, handler Handler) {
	defer bus.wg.Done()
	for {
		select {
		case <-box.done:
			return
		case message := <-box.queue:
			bus.handle(handler, message)
		}
	}
}

// handle runs one handler; a panic is logged and the mailbox keeps going.
func (bus *Bus) handle(handler Handler, message Message) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("bus: handler for %s message %s failed: %v", message.Channel, message.ID, recovered)
		}
	}()
	handler(message)
}

func (box *mailbox) stop() {
	box.once.Do(func() {
		close(box.done)
	})
}

func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
