package handler

import (
	"github.com/gin-gonic/gin"

	appaffiliate "github.com/keepselvesreal/k-beauty-landing-page/internal/application/affiliate"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/affiliate"
)

// AffiliateHandler handles affiliate registration and sales reporting
type AffiliateHandler struct {
	BaseHandler
	affiliateRepo affiliate.AffiliateRepository
	commissions   *appaffiliate.CommissionService
}

// NewAffiliateHandler creates a new AffiliateHandler
func NewAffiliateHandler(affiliateRepo affiliate.AffiliateRepository, commissions *appaffiliate.CommissionService) *AffiliateHandler {
	return &AffiliateHandler{
		affiliateRepo: affiliateRepo,
		commissions:   commissions,
	}
}

type createAffiliateRequest struct {
	Code  string `json:"code" binding:"required,min=2,max=100"`
	Name  string `json:"name" binding:"required,min=1,max=255"`
	Email string `json:"email" binding:"omitempty,email"`
}

// Create handles POST /api/v1/admin/affiliates
func (h *AffiliateHandler) Create(c *gin.Context) {
	var req createAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	aff, err := affiliate.NewAffiliate(req.Code, req.Name, req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.affiliateRepo.Save(c.Request.Context(), aff); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, aff)
}

// ListSales handles GET /api/v1/admin/affiliates/:code/sales
func (h *AffiliateHandler) ListSales(c *gin.Context) {
	records, err := h.commissions.GetAffiliateSales(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}
