// Command pressure demonstrates bounding concurrent work with a
// PressureThrottle wrapped around a Hot source: once both in-flight slots
// and the backing buffer are full, excess pushes are silently dropped.
// ThrottleNode holds a slot only while a job's delivery runs, so the
// sequential pushes below each finish before the next one arrives and all
// 20 jobs are processed; drops happen when pushes arrive concurrently.
package main

import (
	"fmt"
	"time"

	"github.com/corvanis/streamkit/stream"
)

func main() {
	input := stream.NewHotInput[int]("jobs")
	th := stream.NewPressureThrottle(2, 4)

	admitted := stream.ThrottleNode(input.Node(), th)
	stream.On(admitted, func(job int) {
		fmt.Println("processing job", job)
	})

	for i := 0; i < 20; i++ {
		input.Push(i)
	}

	time.Sleep(50 * time.Millisecond)
	input.Terminate(stream.Completion())
}
