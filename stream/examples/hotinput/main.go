// Command hotinput demonstrates a Hot-flavored source: values pushed
// before an observer attaches are simply missed, as Hot gives no replay.
package main

import (
	"fmt"

	"github.com/corvanis/streamkit/stream"
)

func main() {
	input := stream.NewHotInput[int]("ticks")

	input.Push(1) // missed, nothing has attached yet

	stream.On(input.Node(), func(v int) {
		fmt.Println("observed:", v)
	})

	input.Push(2)
	input.Push(3)
	input.Terminate(stream.Completion())
}
