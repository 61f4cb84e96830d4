package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/resolvenow/complaint-service/internal/api/dto"
	"github.com/resolvenow/complaint-service/internal/domain"
	"github.com/resolvenow/complaint-service/internal/service"
	apperrors "github.com/resolvenow/complaint-service/pkg/util/errorutil"
	"github.com/resolvenow/complaint-service/pkg/validator"
)

// ComplaintsHandler manages complaint endpoints for all roles.
type ComplaintsHandler struct {
	service   *service.ComplaintService
	validator validator.Validator
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService, v validator.Validator) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService, validator: v}
}

// Submit POST /complaints.
func (h *ComplaintsHandler) Submit(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateComplaintRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	complaint, err := h.service.Submit(c.UserContext(), user, service.SubmitInput{
		Title:        req.Title,
		Description:  req.Description,
		Product:      req.Product,
		PurchaseDate: req.PurchaseDate,
		Address:      req.Address,
		ContactInfo:  req.ContactInfo,
		Attachments:  req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// ListMine GET /complaints/mine.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := h.service.ListForUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintList(list)})
}

// ListAll GET /complaints?status=.
func (h *ComplaintsHandler) ListAll(c *fiber.Ctx) error {
	var filter *domain.ComplaintStatus
	if raw := c.Query("status"); strings.TrimSpace(raw) != "" {
		status, ok := domain.ParseComplaintStatus(raw)
		if !ok {
			return apperrors.NewValidationError("unknown status", map[string]any{"status": raw})
		}
		filter = &status
	}
	list, err := h.service.ListAll(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintList(list)})
}

// ListAssigned GET /agent/complaints.
func (h *ComplaintsHandler) ListAssigned(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := h.service.ListForAgent(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintList(list)})
}

// Stats GET /complaints/stats.
func (h *ComplaintsHandler) Stats(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		Total:      stats.Total,
		ByStatus:   stats.ByStatus,
		TotalUsers: stats.TotalUsers,
	}})
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	complaint, err := h.service.GetForViewer(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Delete DELETE /complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Assign POST /complaints/:id/assign.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	complaint, err := h.service.Assign(c.UserContext(), user, c.Params("id"), req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// UpdateStatus PATCH /complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	status, ok := domain.ParseComplaintStatus(req.Status)
	if !ok {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}
	complaint, err := h.service.UpdateStatus(c.UserContext(), user, c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// ListMessages GET /complaints/:id/messages.
func (h *ComplaintsHandler) ListMessages(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	messages, err := h.service.ListMessages(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMessageList(messages)})
}

// AddMessage POST /complaints/:id/messages.
func (h *ComplaintsHandler) AddMessage(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateMessageRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	msg, err := h.service.AddMessage(c.UserContext(), user, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMessageResponse(msg)})
}
