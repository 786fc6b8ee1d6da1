package server

import (
	"flashdeck/internal/featureflags"
	"flashdeck/internal/models"
	"flashdeck/internal/trivia"

	"github.com/gofiber/fiber/v2"
)

// TriviaEnabled hides the trivia routes while the trivia flag is off.
func (s *Server) TriviaEnabled() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.featureFlags.On(featureflags.Trivia) {
			return respondError(c, models.NewNotFoundError("Route", c.Path()))
		}
		return c.Next()
	}
}

// GetTriviaTopics handles GET /api/trivia/topics
// @Summary Quick-play topics
// @Tags trivia
// @Produce json
// @Success 200 {array} trivia.Topic
// @Router /trivia/topics [get]
func (s *Server) GetTriviaTopics(c *fiber.Ctx) error {
	return c.JSON(trivia.Topics())
}

// GetTriviaQuestions handles GET /api/trivia/questions
// @Summary Quick-play questions
// @Description Multiple-choice questions from Open Trivia DB with decoded text and shuffled choices
// @Tags trivia
// @Produce json
// @Param amount query int false "Number of questions (1-50, default 10)"
// @Param topic query string false "Topic key (default mixed)"
// @Param difficulty query string false "easy, medium or hard (default hard)"
// @Success 200 {array} trivia.Question
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /trivia/questions [get]
func (s *Server) GetTriviaQuestions(c *fiber.Ctx) error {
	q, err := trivia.ParseQuery(c.Query("amount"), c.Query("topic"), c.Query("difficulty"))
	if err != nil {
		return respondError(c, err)
	}

	questions, err := s.trivia.Questions(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(questions)
}
