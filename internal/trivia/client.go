package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flashdeck/internal/middleware"
	"flashdeck/internal/models"
	"flashdeck/internal/observability"
)

const (
	DefaultAmount     = 10
	MaxAmount         = 50
	DefaultDifficulty = "hard"
)

// Open Trivia DB response codes.
const (
	codeSuccess   = 0
	codeNoResults = 1
)

// Query selects a batch of questions.
type Query struct {
	Amount     int
	Topic      Topic
	Difficulty string
}

// Question is one multiple-choice question with decoded text and shuffled choices.
type Question struct {
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Question   string   `json:"question"`
	Choices    []string `json:"choices"`
	Answer     string   `json:"answer"`
}

type upstreamResponse struct {
	ResponseCode int `json:"response_code"`
	Results      []struct {
		Category         string   `json:"category"`
		Difficulty       string   `json:"difficulty"`
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	} `json:"results"`
}

// ParseQuery validates raw query parameters. Empty values take their defaults;
// amount is clamped to 1..MaxAmount.
func ParseQuery(amount, topic, difficulty string) (Query, error) {
	q := Query{Amount: DefaultAmount, Difficulty: DefaultDifficulty}

	if amount = strings.TrimSpace(amount); amount != "" {
		n, err := strconv.Atoi(amount)
		if err != nil {
			return Query{}, models.NewValidationError("amount must be an integer")
		}
		q.Amount = min(max(n, 1), MaxAmount)
	}

	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		topic = "mixed"
	}
	t, ok := LookupTopic(topic)
	if !ok {
		return Query{}, models.NewValidationError(fmt.Sprintf("unknown topic %q", topic))
	}
	q.Topic = t

	if difficulty = strings.ToLower(strings.TrimSpace(difficulty)); difficulty != "" {
		switch difficulty {
		case "easy", "medium", "hard":
			q.Difficulty = difficulty
		default:
			return Query{}, models.NewValidationError("difficulty must be easy, medium or hard")
		}
	}
	return q, nil
}

// Client calls the Open Trivia DB API.
type Client struct {
	baseURL string
	http    *http.Client
	shuffle func(n int, swap func(i, j int))
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		shuffle: rand.Shuffle,
	}
}

// Questions fetches a batch of multiple-choice questions. "No results" from the
// provider is an empty batch; rate limiting maps to Unavailable and every other
// provider failure to an Upstream error.
func (c *Client) Questions(ctx context.Context, q Query) ([]Question, error) {
	params := url.Values{}
	params.Set("amount", strconv.Itoa(q.Amount))
	if q.Topic.CategoryID != nil {
		params.Set("category", strconv.Itoa(*q.Topic.CategoryID))
	}
	if q.Difficulty != "" {
		params.Set("difficulty", q.Difficulty)
	}
	params.Set("type", "multiple")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api.php?"+params.Encode(), nil)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observability.TriviaUpstreamRequests.WithLabelValues("error").Inc()
		return nil, models.NewUpstreamError("Trivia service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		observability.TriviaUpstreamRequests.WithLabelValues("rate_limited").Inc()
		return nil, models.NewUnavailableError("The trivia service is busy right now. Try again or ask for fewer questions.")
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		observability.TriviaUpstreamRequests.WithLabelValues("error").Inc()
		return nil, models.NewUpstreamError(fmt.Sprintf("Trivia service returned %d", resp.StatusCode), nil)
	}

	var body upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		observability.TriviaUpstreamRequests.WithLabelValues("error").Inc()
		return nil, models.NewUpstreamError("Trivia service returned an unreadable response", err)
	}

	switch body.ResponseCode {
	case codeSuccess:
	case codeNoResults:
		observability.TriviaUpstreamRequests.WithLabelValues("empty").Inc()
		return []Question{}, nil
	default:
		observability.TriviaUpstreamRequests.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "trivia provider rejected query",
			"response_code", body.ResponseCode, "topic", q.Topic.Key, "difficulty", q.Difficulty)
		return nil, models.NewUpstreamError(fmt.Sprintf("Trivia service error (code %d)", body.ResponseCode), nil)
	}

	questions := make([]Question, 0, len(body.Results))
	for _, r := range body.Results {
		answer := html.UnescapeString(r.CorrectAnswer)
		choices := make([]string, 0, len(r.IncorrectAnswers)+1)
		choices = append(choices, answer)
		for _, wrong := range r.IncorrectAnswers {
			choices = append(choices, html.UnescapeString(wrong))
		}
		c.shuffle(len(choices), func(i, j int) { choices[i], choices[j] = choices[j], choices[i] })

		questions = append(questions, Question{
			Category:   html.UnescapeString(r.Category),
			Difficulty: r.Difficulty,
			Question:   html.UnescapeString(r.Question),
			Choices:    choices,
			Answer:     answer,
		})
	}
	observability.TriviaUpstreamRequests.WithLabelValues("ok").Inc()
	return questions, nil
}
