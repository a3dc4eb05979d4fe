package server

import (
	"net/http"
	"strings"

	pricingdomain "github.com/boqbill/boqbill/internal/pricing/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreatePricing(c *gin.Context) {
	var req pricingdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdatePricing(c *gin.Context) {
	var req pricingdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPricingByID(c *gin.Context) {
	resp, err := s.pricingSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPricing(c *gin.Context) {
	var query struct {
		ProductID    string `form:"product_id"`
		CustomerType string `form:"customer_type"`
		Variant      string `form:"variant"`
		WireSize     string `form:"wire_size"`
		WireType     string `form:"wire_type"`
		Active       string `form:"active"`
		AsOf         string `form:"as_of"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active, err := parseOptionalBool(query.Active)
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}
	wireSize, err := parseOptionalFloat(query.WireSize)
	if err != nil {
		AbortWithError(c, newValidationError("wire_size", "invalid_wire_size", "invalid wire size"))
		return
	}
	asOf, err := parseOptionalTime(query.AsOf, false)
	if err != nil {
		AbortWithError(c, newValidationError("as_of", "invalid_as_of", "invalid as_of"))
		return
	}

	req := pricingdomain.ListRequest{
		ProductID:    strings.TrimSpace(query.ProductID),
		CustomerType: strings.TrimSpace(query.CustomerType),
		WireType:     strings.TrimSpace(query.WireType),
		WireSize:     wireSize,
		Active:       active,
		AsOf:         asOf,
	}
	if strings.TrimSpace(query.Variant) != "" {
		variant := strings.TrimSpace(query.Variant)
		req.Variant = &variant
	}

	resp, err := s.pricingSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePricing(c *gin.Context) {
	if err := s.pricingSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) CalculatePrice(c *gin.Context) {
	var req pricingdomain.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingSvc.Calculate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPricingHistory(c *gin.Context) {
	limit, err := parseOptionalInt(c.Query("limit"), 0)
	if err != nil || limit < 0 {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}

	resp, err := s.pricingSvc.History(c.Request.Context(), strings.TrimSpace(c.Param("productId")), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPricingValidationError(err error) bool {
	switch err {
	case pricingdomain.ErrInvalidID,
		pricingdomain.ErrInvalidProduct,
		pricingdomain.ErrInvalidBaseRate,
		pricingdomain.ErrInvalidGSTPercentage,
		pricingdomain.ErrInvalidVariant,
		pricingdomain.ErrInvalidSpecification,
		pricingdomain.ErrInvalidQuantity,
		pricingdomain.ErrInvalidCustomerType,
		pricingdomain.ErrInvalidWireSize,
		pricingdomain.ErrInvalidWireType,
		pricingdomain.ErrInvalidInsulation,
		pricingdomain.ErrInvalidConductor,
		pricingdomain.ErrInvalidCostPrice,
		pricingdomain.ErrInvalidMarkup,
		pricingdomain.ErrInvalidTierQuantity,
		pricingdomain.ErrInvalidTierRate,
		pricingdomain.ErrInvalidTierRange,
		pricingdomain.ErrInvalidTierDiscount,
		pricingdomain.ErrInvalidEffectiveWindow,
		pricingdomain.ErrMissingActor:
		return true
	default:
		return false
	}
}
