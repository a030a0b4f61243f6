// Command promisegoogle mirrors promisellm but wraps a Gemini
// GenerateContent call as the settling task (grounded on the teacher's
// graph/model/google ChatModel adapter).
package main

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/corvanis/streamkit/stream"
)

// ChatReply is the settled value of a chat Promise.
type ChatReply struct {
	Text string
}

func chatTask(apiKey, modelName, prompt string) func(complete func(stream.Result[ChatReply])) {
	return func(complete func(stream.Result[ChatReply])) {
		ctx := context.Background()
		client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			complete(stream.Err[ChatReply](&stream.EventError{Message: "client init failed", Cause: err}))
			return
		}
		defer client.Close()

		model := client.GenerativeModel(modelName)
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			complete(stream.Err[ChatReply](&stream.EventError{Message: "generate content failed", Cause: err}))
			return
		}

		var text string
		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			for _, part := range resp.Candidates[0].Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text += string(t)
				}
			}
		}
		complete(stream.Ok(ChatReply{Text: text}))
	}
}

func main() {
	p := stream.NewPromise("google.chat", chatTask("api-key-example", "gemini-1.5-flash", "Explain Cold streams in one sentence."))
	stream.On(p.Node(), func(r ChatReply) {
		fmt.Println(r.Text)
	})
}
