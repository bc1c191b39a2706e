package handlers

import (
	"net/http"

	"lashstudio/services/content"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	ContentService content.ContentService
}

func NewContentHandler(svc content.ContentService) *ContentHandler {
	return &ContentHandler{ContentService: svc}
}

// PageHandler handles GET /api/content/:pageSlug.
func (h *ContentHandler) PageHandler(c *gin.Context) {
	blocks, err := h.ContentService.Page(c.Request.Context(), c.Param("pageSlug"))
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"blocks": blocks, "count": len(blocks)})
}

// CreateBlockHandler handles POST /api/content/:pageSlug/blocks.
func (h *ContentHandler) CreateBlockHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in content.BlockInput
	if !bindJSON(c, &in) {
		return
	}
	block, err := h.ContentService.CreateBlock(c.Request.Context(), p, c.Param("pageSlug"), in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"block": block})
}

// TestimonialsHandler handles GET /api/testimonials?featured=.
func (h *ContentHandler) TestimonialsHandler(c *gin.Context) {
	items, err := h.ContentService.Testimonials(c.Request.Context(), queryBool(c, "featured"))
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"testimonials": items, "count": len(items)})
}

// SubmitTestimonialHandler handles POST /api/testimonials.
func (h *ContentHandler) SubmitTestimonialHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in content.TestimonialInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := h.ContentService.SubmitTestimonial(c.Request.Context(), p, in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"testimonial": t})
}
