package server

import (
	"flashdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateTagRequest is the body of POST /api/tags. The slug is derived from the name
// when omitted.
type CreateTagRequest struct {
	Name string  `json:"name"`
	Slug *string `json:"slug"`
}

// AttachTagRequest names the tag to attach, by id or by name.
type AttachTagRequest struct {
	TagID *uint   `json:"tag_id"`
	Name  string  `json:"name"`
	Slug  *string `json:"slug"`
}

// GetTags handles GET /api/tags
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} models.Tag
// @Router /tags [get]
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.tagService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

// CreateTag handles POST /api/tags
// @Summary Create or get tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTagRequest true "Tag"
// @Success 200 {object} models.Tag
// @Failure 400 {object} models.ErrorResponse
// @Router /tags [post]
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req CreateTagRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	tag, err := s.tagService.CreateOrGet(c.UserContext(), req.Name, req.Slug)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tag)
}

// GetDeckTags handles GET /api/tags/deck/:deckId
// @Summary List deck tags
// @Tags tags
// @Produce json
// @Param deckId path int true "Deck ID"
// @Success 200 {array} models.Tag
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tags/deck/{deckId} [get]
func (s *Server) GetDeckTags(c *fiber.Ctx) error {
	deckID, err := parseID(c, "deckId")
	if err != nil {
		return nil
	}

	tags, err := s.tagService.ListForDeck(c.UserContext(), deckID, viewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

// AttachDeckTag handles POST /api/tags/deck/:deckId
// @Summary Attach tag
// @Description Attaching a tag that is already attached is a no-op.
// @Tags tags
// @Accept json
// @Security BearerAuth
// @Param deckId path int true "Deck ID"
// @Param request body AttachTagRequest true "Tag id or name"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tags/deck/{deckId} [post]
func (s *Server) AttachDeckTag(c *fiber.Ctx) error {
	deckID, err := parseID(c, "deckId")
	if err != nil {
		return nil
	}
	var req AttachTagRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	_, err = s.tagService.Attach(c.UserContext(), deckID, currentUserID(c), service.AttachTagInput{
		TagID: req.TagID,
		Name:  req.Name,
		Slug:  req.Slug,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DetachDeckTag handles DELETE /api/tags/deck/:deckId/:tagId
// @Summary Detach tag
// @Tags tags
// @Security BearerAuth
// @Param deckId path int true "Deck ID"
// @Param tagId path int true "Tag ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tags/deck/{deckId}/{tagId} [delete]
func (s *Server) DetachDeckTag(c *fiber.Ctx) error {
	deckID, err := parseID(c, "deckId")
	if err != nil {
		return nil
	}
	tagID, err := parseID(c, "tagId")
	if err != nil {
		return nil
	}

	if err := s.tagService.Detach(c.UserContext(), deckID, tagID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
