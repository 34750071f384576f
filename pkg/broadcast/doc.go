// Package broadcast fans messages out to in-process subscribers grouped by
// topic.
//
// MemoryBroadcaster never blocks a publisher: each subscriber has a buffered
// channel and a subscriber whose buffer is full is dropped and closed. The
// form server uses one topic per form session to push signal patches that
// originate outside a request, such as the delayed banner dismissal, to the
// session's open event streams.
//
//	b := broadcast.NewMemoryBroadcaster[[]byte](16)
//	sub := b.Subscribe(ctx, sessionID)
//	defer sub.Close()
//	for msg := range sub.Receive() {
//	    _ = sse.PatchSignals(msg.Data)
//	}
package broadcast
