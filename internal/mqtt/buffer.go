package mqtt

import "log"

// queuedMsg is a serialized MQTT message held for replay after reconnection.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox is a fixed-capacity FIFO holding messages published while the
// connection is down. When full, the oldest message is dropped.
// Not safe for concurrent use — caller must synchronize.
type outbox struct {
	slots    []queuedMsg
	capacity int
	next     int // next write position
	count    int
	dropped  bool // true if any message was dropped since the last flush
}

func newOutbox(capacity int) *outbox {
	return &outbox{
		slots:    make([]queuedMsg, capacity),
		capacity: capacity,
	}
}

func (o *outbox) add(msg queuedMsg) {
	if o.count == o.capacity {
		if !o.dropped {
			log.Printf("mqtt: outbox full (%d messages), dropping oldest", o.capacity)
			o.dropped = true
		}
		// next already points at the oldest slot
		o.slots[o.next] = msg
		o.next = (o.next + 1) % o.capacity
		return
	}
	o.slots[o.next] = msg
	o.next = (o.next + 1) % o.capacity
	o.count++
}

// flush returns the queued messages oldest first and empties the outbox.
func (o *outbox) flush() []queuedMsg {
	if o.count == 0 {
		return nil
	}

	out := make([]queuedMsg, o.count)
	start := (o.next - o.count + o.capacity) % o.capacity
	for i := 0; i < o.count; i++ {
		out[i] = o.slots[(start+i)%o.capacity]
	}

	o.count = 0
	o.next = 0
	o.dropped = false
	return out
}

func (o *outbox) len() int {
	return o.count
}
