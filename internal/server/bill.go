package server

import (
	"fmt"
	"net/http"
	"strings"

	billdomain "github.com/boqbill/boqbill/internal/bill/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateBill(c *gin.Context) {
	var req billdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateBill(c *gin.Context) {
	var req billdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillByID(c *gin.Context) {
	resp, err := s.billSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBills(c *gin.Context) {
	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from date"))
		return
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to date"))
		return
	}

	req := billdomain.ListRequest{
		CompanyID:     strings.TrimSpace(c.Query("company_id")),
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		CustomerName:  strings.TrimSpace(c.Query("customer_name")),
		From:          from,
		To:            to,
	}

	resp, err := s.billSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteBill(c *gin.Context) {
	if err := s.billSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"cancelled": true}})
}

func (s *Server) FinalizeBill(c *gin.Context) {
	resp, err := s.billSvc.Finalize(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DownloadBillPDF(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	data, err := s.billSvc.RenderPDF(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bill-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) DownloadBillCSV(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	data, err := s.billSvc.ExportCSV(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bill-%s.csv", id))
	c.Data(http.StatusOK, "text/csv", data)
}

func isBillValidationError(err error) bool {
	switch err {
	case billdomain.ErrInvalidID,
		billdomain.ErrInvalidCompany,
		billdomain.ErrInvalidTemplate,
		billdomain.ErrInvalidCustomer,
		billdomain.ErrInvalidProduct,
		billdomain.ErrInvalidQuantity,
		billdomain.ErrInvalidRate,
		billdomain.ErrInvalidDiscount,
		billdomain.ErrInvalidStatus,
		billdomain.ErrInvalidAmount,
		billdomain.ErrMissingItems:
		return true
	default:
		return false
	}
}
