// Package broadcast provides type-safe one-to-many message fan-out with
// automatic subscriber cleanup.
//
// Basic usage:
//
//	b := broadcast.NewMemoryBroadcaster[string](broadcast.WithBufferSize(16))
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	defer sub.Close()
//
//	_ = b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"})
//
//	for msg := range sub.Receive(ctx) {
//		fmt.Println(msg.Data)
//	}
//
// The memory implementation removes a subscriber when:
//   - the context passed to Subscribe is cancelled
//   - its buffer is full at broadcast time (the channel is closed)
//   - the broadcaster is closed
package broadcast
