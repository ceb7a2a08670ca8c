package workflow

// StateChange describes one workflow transition delivered to subscribers.
type StateChange struct {
	From         State
	To           State
	InvocationID string
}

const subscriberBuffer = 16

// Subscribe registers a state-change listener. The channel is buffered; a
// subscriber that falls more than subscriberBuffer transitions behind loses
// the oldest notifications rather than blocking the workflow.
func (o *Orchestrator) Subscribe() (int, <-chan StateChange) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextSubID
	o.nextSubID++
	ch := make(chan StateChange, subscriberBuffer)
	o.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (o *Orchestrator) Unsubscribe(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ch, ok := o.subs[id]; ok {
		delete(o.subs, id)
		close(ch)
	}
}

// notifyLocked fans a transition out to subscribers. Callers hold o.mu.
func (o *Orchestrator) notifyLocked(from, to State, invocationID string) {
	if from == to {
		return
	}
	change := StateChange{From: from, To: to, InvocationID: invocationID}
	for _, ch := range o.subs {
		select {
		case ch <- change:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- change:
			default:
			}
		}
	}
}
