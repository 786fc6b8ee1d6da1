package server

import (
	"flashdeck/internal/models"
	"flashdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CardRequest is the body of card create and update. On update, omitted fields are
// unchanged, an empty hint clears it and clear_position unsets the position.
type CardRequest struct {
	Front         *string `json:"front"`
	Back          *string `json:"back"`
	Hint          *string `json:"hint"`
	Position      *int    `json:"position"`
	ClearPosition bool    `json:"clear_position,omitempty"`
}

// CardDraftRequest is one card of a bulk replace. Entries without an id are created.
type CardDraftRequest struct {
	ID    *uint   `json:"id"`
	Front string  `json:"front"`
	Back  string  `json:"back"`
	Hint  *string `json:"hint"`
}

// ReplaceCardsRequest is the body of PUT /api/decks/:id/cards, in display order.
type ReplaceCardsRequest struct {
	Cards []CardDraftRequest `json:"cards"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetDeckCards handles GET /api/cards/deck/:deckId
// @Summary List deck cards
// @Tags cards
// @Produce json
// @Param deckId path int true "Deck ID"
// @Success 200 {array} models.Card
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cards/deck/{deckId} [get]
func (s *Server) GetDeckCards(c *fiber.Ctx) error {
	deckID, err := parseID(c, "deckId")
	if err != nil {
		return nil
	}

	cards, err := s.cardService.ListForDeck(c.UserContext(), deckID, viewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cards)
}

// CreateCard handles POST /api/cards/deck/:deckId
// @Summary Create card
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deckId path int true "Deck ID"
// @Param request body CardRequest true "Card"
// @Success 201 {object} models.Card
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cards/deck/{deckId} [post]
func (s *Server) CreateCard(c *fiber.Ctx) error {
	deckID, err := parseID(c, "deckId")
	if err != nil {
		return nil
	}
	var req CardRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	card, err := s.cardService.Create(c.UserContext(), deckID, currentUserID(c), service.CreateCardInput{
		Front:    deref(req.Front),
		Back:     deref(req.Back),
		Hint:     req.Hint,
		Position: req.Position,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

// UpdateCard handles PUT /api/cards/:id
// @Summary Update card
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card ID"
// @Param request body CardRequest true "Fields to change"
// @Success 200 {object} models.Card
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cards/{id} [put]
func (s *Server) UpdateCard(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req CardRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	card, err := s.cardService.Update(c.UserContext(), id, currentUserID(c), service.UpdateCardInput{
		Front:         req.Front,
		Back:          req.Back,
		Hint:          req.Hint,
		Position:      req.Position,
		ClearPosition: req.ClearPosition,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(card)
}

// DeleteCard handles DELETE /api/cards/:id
// @Summary Delete card
// @Tags cards
// @Security BearerAuth
// @Param id path int true "Card ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cards/{id} [delete]
func (s *Server) DeleteCard(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.cardService.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReplaceDeckCards handles PUT /api/decks/:id/cards
// @Summary Replace deck cards
// @Description Replaces the deck's cards with the submitted list in one transaction.
// @Description Cards with an id are updated, cards without one are created, and cards left out are deleted.
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Deck ID"
// @Param request body ReplaceCardsRequest true "Cards in display order"
// @Success 200 {array} models.Card
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /decks/{id}/cards [put]
func (s *Server) ReplaceDeckCards(c *fiber.Ctx) error {
	deckID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req ReplaceCardsRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Cards == nil {
		return respondError(c, models.NewValidationError("cards is required"))
	}

	drafts := make([]service.CardDraftInput, len(req.Cards))
	for i, d := range req.Cards {
		drafts[i] = service.CardDraftInput{ID: d.ID, Front: d.Front, Back: d.Back, Hint: d.Hint}
	}

	cards, err := s.cardService.ReplaceAll(c.UserContext(), deckID, currentUserID(c), drafts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cards)
}
