// Command promiseopenai mirrors promisellm but wraps an OpenAI chat
// completion as the settling task (grounded on the teacher's
// graph/model/openai ChatModel adapter).
package main

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/corvanis/streamkit/stream"
)

// ChatReply is the settled value of a chat Promise.
type ChatReply struct {
	Text string
}

func chatTask(client openai.Client, model, prompt string) func(complete func(stream.Result[ChatReply])) {
	return func(complete func(stream.Result[ChatReply])) {
		ctx := context.Background()
		resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
		})
		if err != nil {
			complete(stream.Err[ChatReply](&stream.EventError{Message: "chat request failed", Cause: err}))
			return
		}

		var text string
		if len(resp.Choices) > 0 {
			text = resp.Choices[0].Message.Content
		}
		complete(stream.Ok(ChatReply{Text: text}))
	}
}

func main() {
	client := openai.NewClient(option.WithAPIKey("sk-example"))

	p := stream.NewPromise("openai.chat", chatTask(client, "gpt-4", "List three benefits of backpressure."))
	stream.On(p.Node(), func(r ChatReply) {
		fmt.Println(r.Text)
	})
}
