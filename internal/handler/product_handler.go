package handler

import (
	"errors"
	"io"
	"net/http"

	"commissionhub/internal/domain"
	"commissionhub/internal/middleware"
	"commissionhub/internal/models"
	"commissionhub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	svc *service.ProductService
	log *zap.Logger
}

func NewProductHandler(svc *service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

func (h *ProductHandler) List(c *gin.Context) {
	views, err := h.svc.List(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": views})
}

func (h *ProductHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": view})
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

func (h *ProductHandler) Approve(c *gin.Context) {
	var req service.ApproveInput
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c, "Product approved")(h.svc.Approve(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req))
}

func (h *ProductHandler) Reject(c *gin.Context) {
	h.respond(c, "Product rejected")(h.svc.Reject(c.Request.Context(), middleware.GetActor(c), c.Param("id")))
}

func (h *ProductHandler) Accept(c *gin.Context) {
	h.respond(c, "Product accepted")(h.svc.Accept(c.Request.Context(), middleware.GetActor(c), c.Param("id")))
}

func (h *ProductHandler) SubmitDemo(c *gin.Context) {
	var req service.SubmitDemoInput
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c, "Demo submitted")(h.svc.SubmitDemo(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req))
}

// ApproveDemo is shared by owners (demo approval) and admins (delivery).
func (h *ProductHandler) ApproveDemo(c *gin.Context) {
	actor := middleware.GetActor(c)
	msg := "Demo approved"
	if actor.IsAdmin() {
		msg = "Project delivered"
	}
	h.respond(c, msg)(h.svc.ApproveOrDeliver(c.Request.Context(), actor, c.Param("id")))
}

func (h *ProductHandler) RejectDemo(c *gin.Context) {
	var req service.RejectDemoInput
	// the reason is optional, so an empty body is fine
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.respond(c, "Demo rejected")(h.svc.RejectDemo(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req))
}

func (h *ProductHandler) NotifyUser(c *gin.Context) {
	h.respond(c, "User notified")(h.svc.NotifyUser(c.Request.Context(), middleware.GetActor(c), c.Param("id")))
}

func (h *ProductHandler) Pay(c *gin.Context) {
	var req service.PaymentInput
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c, "Payment completed")(h.svc.Pay(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req))
}

func (h *ProductHandler) GetPayment(c *gin.Context) {
	info, err := h.svc.GetPayment(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": info})
}

func (h *ProductHandler) History(c *gin.Context) {
	entries, err := h.svc.History(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// respond renders a transition result. Sellers get the redacted product.
func (h *ProductHandler) respond(c *gin.Context, message string) func(*models.Product, error) {
	return func(p *models.Product, err error) {
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		out := *p
		if middleware.GetActor(c).Role == domain.RoleSeller {
			out = out.Redacted()
		}
		c.JSON(http.StatusOK, gin.H{"message": message, "product": out})
	}
}
