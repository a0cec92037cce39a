package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	httpclient "github.com/keboola/go-http-client"
)

type triviaResponse struct {
	Results []struct {
		Question string `json:"question"`
		Answer   string `json:"correct_answer"`
	} `json:"results"`
}

func main() {
	client, err := httpclient.New("https://opentdb.com/",
		httpclient.WithTimeout(10*time.Second),
		httpclient.WithRateLimit(5),
		httpclient.WithRequestID(),
		httpclient.WithLogger(httpclient.NewZeroLogger("debug")),
		httpclient.WithRetryOptions(
			httpclient.WithMaxAttempts(5),
			httpclient.WithBackoffFactor(200*time.Millisecond),
		),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var trivia triviaResponse
	err = client.GetJSON(ctx, "api.php", &trivia,
		httpclient.WithParams(map[string]string{"amount": "3"}))
	if err != nil {
		log.Fatal(err)
	}

	for _, result := range trivia.Results {
		fmt.Printf("Q: %s\nA: %s\n\n", result.Question, result.Answer)
	}

	// Concurrent batch: each request retries independently.
	jobs := []httpclient.Job{
		{Method: http.MethodGet, Path: "api.php", Options: []httpclient.RequestOption{
			httpclient.WithParams(map[string]string{"amount": "1"}),
		}},
		{Method: http.MethodGet, Path: "api_category.php"},
	}
	responses, err := client.ProcessMultiple(ctx, jobs)
	if err != nil {
		log.Fatal(err)
	}
	for _, resp := range responses {
		fmt.Println("batch status:", resp.Status)
		resp.Body.Close()
	}
}
