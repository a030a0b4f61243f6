// Command timerpoll demonstrates driving a periodic poll off a Timer
// rather than a raw time.Ticker, so late attachers immediately observe the
// current tick count instead of waiting for the next one.
package main

import (
	"fmt"
	"time"

	"github.com/corvanis/streamkit/stream"
	"github.com/corvanis/streamkit/stream/dispatch"
)

func main() {
	runner := dispatch.NewRunner()
	queue := dispatch.Background()

	timer := stream.NewTimer("poll", runner, queue)
	stream.On(timer.Node(), func(tick int) {
		fmt.Println("tick:", tick)
	})

	timer.Start(0, 200*time.Millisecond)
	time.Sleep(1100 * time.Millisecond)
	timer.Stop()
}
