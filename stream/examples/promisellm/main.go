// Command promisellm demonstrates wrapping a one-shot LLM call as a
// Promise, so repeated attaches share the single in-flight (or cached)
// response rather than re-issuing the request (grounded on the teacher's
// ChatModel interface, adapted into a Promise task closure).
package main

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/corvanis/streamkit/stream"
)

// ChatReply is the settled value of a chat Promise.
type ChatReply struct {
	Text string
}

func chatTask(client *anthropic.Client, prompt string) func(complete func(stream.Result[ChatReply])) {
	return func(complete func(stream.Result[ChatReply])) {
		ctx := context.Background()
		msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.ModelClaude3_5SonnetLatest,
			MaxTokens: 1024,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			complete(stream.Err[ChatReply](&stream.EventError{Message: "chat request failed", Cause: err}))
			return
		}

		var text string
		for _, block := range msg.Content {
			if block.Type == "text" {
				text += block.Text
			}
		}
		complete(stream.Ok(ChatReply{Text: text}))
	}
}

func main() {
	client := anthropic.NewClient(option.WithAPIKey("sk-ant-example"))

	p := stream.NewPromise("summarize", chatTask(client, "Summarize the benefits of reactive streams.")).Reuse(true)

	stream.On(p.Node(), func(r ChatReply) {
		fmt.Println(r.Text)
	})
	// A second attach shares the same settled generation instead of
	// re-issuing the request.
	stream.On(p.Node(), func(r ChatReply) {
		fmt.Println("also received:", r.Text)
	})
}
