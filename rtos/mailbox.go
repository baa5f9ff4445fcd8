package rtos

// mailbox is an endpoint's message queue. It holds mailboxSlots messages
// in place so a send from the fault path or a tick handler never allocates;
// a full mailbox refuses the message and the sender sees SendErrQueueFull.
type mailbox struct {
	first uint8
	n     uint8
	slots [mailboxSlots]Message
}

func (mb *mailbox) len() int { return int(mb.n) }

func (mb *mailbox) push(msg Message) bool {
	if mb.n == mailboxSlots {
		return false
	}
	mb.slots[(int(mb.first)+int(mb.n))%mailboxSlots] = msg
	mb.n++
	return true
}

func (mb *mailbox) pop() (Message, bool) {
	if mb.n == 0 {
		return Message{}, false
	}
	msg := mb.slots[mb.first]
	mb.slots[mb.first] = Message{}
	mb.first = uint8((int(mb.first) + 1) % mailboxSlots)
	mb.n--
	return msg, true
}
