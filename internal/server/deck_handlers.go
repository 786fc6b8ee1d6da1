package server

import (
	"strings"

	"flashdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateDeckRequest is the body of POST /api/decks. An omitted visibility takes the
// configured default.
type CreateDeckRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Visibility  *string `json:"visibility"`
}

// UpdateDeckRequest is the body of PUT /api/decks/:id. Omitted fields are unchanged.
type UpdateDeckRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Visibility  *string `json:"visibility"`
}

// CreateDeck handles POST /api/decks
// @Summary Create deck
// @Tags decks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDeckRequest true "Deck"
// @Success 201 {object} models.Deck
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /decks [post]
func (s *Server) CreateDeck(c *fiber.Ctx) error {
	var req CreateDeckRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	visibility := s.config.DefaultDeckVisibility
	if req.Visibility != nil && strings.TrimSpace(*req.Visibility) != "" {
		visibility = *req.Visibility
	}

	deck, err := s.deckService.Create(c.UserContext(), currentUserID(c), service.CreateDeckInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Visibility:  visibility,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(deck)
}

// GetMyDecks handles GET /api/decks/mine
// @Summary My decks
// @Description Decks owned by the caller, newest first, with card counts
// @Tags decks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Deck
// @Failure 401 {object} models.ErrorResponse
// @Router /decks/mine [get]
func (s *Server) GetMyDecks(c *fiber.Ctx) error {
	decks, err := s.deckService.ListMine(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(decks)
}

// GetPublicDecks handles GET /api/decks/public
// @Summary Public decks
// @Tags decks
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Deck
// @Failure 400 {object} models.ErrorResponse
// @Router /decks/public [get]
func (s *Server) GetPublicDecks(c *fiber.Ctx) error {
	page, err := parsePagination(c)
	if err != nil {
		return respondError(c, err)
	}

	decks, err := s.deckService.ListPublic(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(decks)
}

// GetDeck handles GET /api/decks/:id
// @Summary Deck detail
// @Description Deck with ordered cards, tags and owner. Private decks are visible to their owner only.
// @Tags decks
// @Produce json
// @Param id path int true "Deck ID"
// @Success 200 {object} models.DeckDetail
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /decks/{id} [get]
func (s *Server) GetDeck(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.deckService.Get(c.UserContext(), id, viewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// GetDeckByShareCode handles GET /api/decks/code/:code
// @Summary Deck by share code
// @Tags decks
// @Produce json
// @Param code path string true "Share code"
// @Success 200 {object} models.DeckDetail
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /decks/code/{code} [get]
func (s *Server) GetDeckByShareCode(c *fiber.Ctx) error {
	detail, err := s.deckService.GetByShareCode(c.UserContext(), c.Params("code"), viewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// UpdateDeck handles PUT /api/decks/:id
// @Summary Update deck
// @Tags decks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Deck ID"
// @Param request body UpdateDeckRequest true "Fields to change"
// @Success 200 {object} models.Deck
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /decks/{id} [put]
func (s *Server) UpdateDeck(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req UpdateDeckRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	deck, err := s.deckService.Update(c.UserContext(), id, currentUserID(c), service.UpdateDeckInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Visibility:  req.Visibility,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(deck)
}

// DeleteDeck handles DELETE /api/decks/:id
// @Summary Delete deck
// @Description Deletes the deck with its cards and tag links
// @Tags decks
// @Security BearerAuth
// @Param id path int true "Deck ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /decks/{id} [delete]
func (s *Server) DeleteDeck(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.deckService.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
