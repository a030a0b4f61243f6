// Command coldhttp demonstrates wrapping an HTTP client as a Cold worker so
// each downstream branch can issue its own independently replayed request
// (grounded on the teacher's HTTPTool, adapted from a direct Call into a
// ColdWorker closure).
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/corvanis/streamkit/stream"
)

// HTTPRequest is the input to one Cold branch request.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

// HTTPResponse is the successful result of one request.
type HTTPResponse struct {
	StatusCode int
	Headers    map[string][]string
	Body       string
}

func httpWorker(client *http.Client) stream.ColdWorker[HTTPRequest, HTTPResponse] {
	return func(ctx context.Context, req HTTPRequest) stream.Result[HTTPResponse] {
		method := req.Method
		if method == "" {
			method = http.MethodGet
		}

		var body io.Reader
		if req.Body != "" {
			body = bytes.NewReader([]byte(req.Body))
		}

		httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), req.URL, body)
		if err != nil {
			return stream.Err[HTTPResponse](&stream.EventError{Message: "build request", Cause: err})
		}
		for k, v := range req.Headers {
			httpReq.Header.Set(k, v)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return stream.Err[HTTPResponse](&stream.EventError{Message: "request failed", Cause: err})
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return stream.Err[HTTPResponse](&stream.EventError{Message: "read body", Cause: err})
		}

		return stream.Ok(HTTPResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Body:       string(data),
		})
	}
}

func main() {
	client := &http.Client{Timeout: 10 * time.Second}
	cold := stream.NewCold("http", httpWorker(client))

	branch := cold.Branch("fetch-status")
	stream.On(branch.Node(), func(resp HTTPResponse) {
		fmt.Printf("status=%d bytes=%d\n", resp.StatusCode, len(resp.Body))
	})

	ctx := context.Background()
	branch.Request(ctx, HTTPRequest{Method: "GET", URL: "https://example.invalid/health"})
}
