package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), fiber.StatusBadRequest},
		{"not found", NewNotFoundError("Deck", 1), fiber.StatusNotFound},
		{"forbidden", NewForbiddenError("no"), fiber.StatusForbidden},
		{"unauthorized", NewUnauthorizedError("who"), fiber.StatusUnauthorized},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"upstream", NewUpstreamError("trivia", nil), fiber.StatusBadGateway},
		{"unavailable", NewUnavailableError("busy"), fiber.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("load deck: %w", NewNotFoundError("Deck", 2)), fiber.StatusNotFound},
		{"plain", errors.New("plain"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewForbiddenError("nope"))
	assert.True(t, IsCode(err, CodeForbidden))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(errors.New("x"), CodeForbidden))
}

func TestRespondWithError_HidesInternalCause(t *testing.T) {
	app := fiber.New()
	app.Get("/internal", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError,
			NewInternalError(errors.New("pq: password authentication failed for user \"app\"")))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, errors.New("dial tcp 10.0.0.3:5432"))
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusBadRequest, NewValidationError("Title is required"))
	})

	decode := func(path string) (int, ErrorResponse, string) {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		return resp.StatusCode, body, string(raw)
	}

	status, body, raw := decode("/internal")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, CodeInternal, body.Code)
	assert.NotContains(t, raw, "password")

	_, body, raw = decode("/plain")
	assert.Equal(t, CodeInternal, body.Code)
	assert.NotContains(t, raw, "10.0.0.3")

	status, body, _ = decode("/validation")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, CodeValidation, body.Code)
	assert.Equal(t, "Title is required", body.Error)
}

func TestParseVisibility(t *testing.T) {
	v, ok := ParseVisibility(" public ")
	assert.True(t, ok)
	assert.Equal(t, VisibilityPublic, v)

	v, ok = ParseVisibility("PRIVATE")
	assert.True(t, ok)
	assert.Equal(t, VisibilityPrivate, v)

	_, ok = ParseVisibility("unlisted")
	assert.False(t, ok)
	_, ok = ParseVisibility("")
	assert.False(t, ok)
}

func TestDeckPatch_Columns(t *testing.T) {
	assert.True(t, DeckPatch{}.IsEmpty())

	title := "Spanish"
	vis := VisibilityPublic
	cols := DeckPatch{Title: &title, Visibility: &vis}.Columns()
	assert.Equal(t, map[string]interface{}{"title": "Spanish", "visibility": VisibilityPublic}, cols)
}

func TestCardPatch_Columns(t *testing.T) {
	assert.True(t, CardPatch{}.IsEmpty())

	pos := 4
	hint := ""
	cols := CardPatch{Position: &pos, Hint: &hint}.Columns()
	assert.Equal(t, map[string]interface{}{"position": 4, "hint": ""}, cols)

	cleared := CardPatch{Hint: &hint, ClearHint: true}
	assert.False(t, cleared.IsEmpty())
	assert.Equal(t, map[string]interface{}{"hint": nil}, cleared.Columns())

	unordered := CardPatch{Position: &pos, ClearPosition: true}
	assert.False(t, unordered.IsEmpty())
	assert.Equal(t, map[string]interface{}{"position": nil}, unordered.Columns())
	assert.False(t, CardPatch{ClearPosition: true}.IsEmpty())
}
