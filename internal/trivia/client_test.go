package trivia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"flashdeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultAmount, q.Amount)
	assert.Equal(t, "mixed", q.Topic.Key)
	assert.Nil(t, q.Topic.CategoryID)
	assert.Equal(t, "hard", q.Difficulty)

	q, err = ParseQuery("500", " Computers ", "EASY")
	require.NoError(t, err)
	assert.Equal(t, MaxAmount, q.Amount)
	assert.Equal(t, 18, *q.Topic.CategoryID)
	assert.Equal(t, "easy", q.Difficulty)

	q, err = ParseQuery("-3", "mixed", "")
	require.NoError(t, err)
	assert.Equal(t, 1, q.Amount)

	for _, bad := range [][3]string{{"ten", "", ""}, {"", "cooking", ""}, {"", "", "impossible"}} {
		_, err := ParseQuery(bad[0], bad[1], bad[2])
		assert.True(t, models.IsCode(err, models.CodeValidation), bad)
	}
}

func TestTopics_CopyIsIndependent(t *testing.T) {
	list := Topics()
	require.NotEmpty(t, list)
	list[0].Key = "changed"

	_, ok := LookupTopic("mixed")
	assert.True(t, ok)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL + "/")
	c.shuffle = func(int, func(i, j int)) {}
	return c
}

func TestQuestions_DecodesAndBuildsChoices(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api.php", r.URL.Path)
		gotQuery = map[string]string{
			"amount":     r.URL.Query().Get("amount"),
			"category":   r.URL.Query().Get("category"),
			"difficulty": r.URL.Query().Get("difficulty"),
			"type":       r.URL.Query().Get("type"),
		}
		_, _ = w.Write([]byte(`{"response_code":0,"results":[{
			"category":"Science: Computers","difficulty":"easy",
			"question":"What does &quot;CPU&quot; stand for?",
			"correct_answer":"Central Processing Unit",
			"incorrect_answers":["Computer &amp; Power Unit","Core Process Utility","Central Program Unit"]}]}`))
	})

	q, err := ParseQuery("3", "computers", "easy")
	require.NoError(t, err)
	questions, err := c.Questions(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"amount": "3", "category": "18", "difficulty": "easy", "type": "multiple"}, gotQuery)
	require.Len(t, questions, 1)
	assert.Equal(t, `What does "CPU" stand for?`, questions[0].Question)
	assert.Equal(t, "Central Processing Unit", questions[0].Answer)
	assert.Equal(t, []string{"Central Processing Unit", "Computer & Power Unit", "Core Process Utility", "Central Program Unit"}, questions[0].Choices)
}

func TestQuestions_MixedTopicOmitsCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("category"))
		_, _ = w.Write([]byte(`{"response_code":1,"results":[]}`))
	})

	q, err := ParseQuery("", "mixed", "")
	require.NoError(t, err)
	questions, err := c.Questions(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, questions)
	assert.NotNil(t, questions)
}

func TestQuestions_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"response_code":5}`, models.CodeUnavailable},
		{"server error", http.StatusInternalServerError, `oops`, models.CodeUpstream},
		{"invalid parameter", http.StatusOK, `{"response_code":2,"results":[]}`, models.CodeUpstream},
		{"not json", http.StatusOK, `<html>`, models.CodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			q, err := ParseQuery("", "", "")
			require.NoError(t, err)

			_, err = c.Questions(context.Background(), q)
			assert.True(t, models.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestQuestions_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	q, err := ParseQuery("", "", "")
	require.NoError(t, err)

	_, err = c.Questions(context.Background(), q)
	assert.True(t, models.IsCode(err, models.CodeUpstream))
}
