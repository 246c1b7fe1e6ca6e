package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/service"
	"github.com/jattu8602/ek-sub000/internal/middleware"
)

type NewsletterRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ApplicationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ModerationController groups the public submission endpoints and their
// admin counterparts: contact inbox, seller applications, newsletter.
type ModerationController struct {
	contactService    service.ContactService
	sellerService     service.SellerApplicationService
	newsletterService service.NewsletterService
}

func NewModerationController(
	contactService service.ContactService,
	sellerService service.SellerApplicationService,
	newsletterService service.NewsletterService,
) *ModerationController {
	return &ModerationController{
		contactService:    contactService,
		sellerService:     sellerService,
		newsletterService: newsletterService,
	}
}

// SubmitContact handles the public contact form
// POST /api/v1/contact
func (ctrl *ModerationController) SubmitContact(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	submission, err := ctrl.contactService.Submit(input)
	if err != nil {
		log.Error("Failed to save contact submission", err, map[string]interface{}{
			"email": input.Email,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to submit message",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Message received, we will get back to you soon",
		"submission": submission,
	})
}

// ListContacts returns contact submissions for the admin inbox
// GET /api/v1/admin/contacts
func (ctrl *ModerationController) ListContacts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	submissions, total, err := ctrl.contactService.List(status, page, perPage)
	if err != nil {
		log.Error("Failed to list contact submissions", err, map[string]interface{}{
			"status": status,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch contact submissions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"total":       total,
		"page":        page,
	})
}

// ResolveContact marks a contact submission as handled
// PUT /api/v1/admin/contacts/:id/resolve
func (ctrl *ModerationController) ResolveContact(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid submission ID",
		})
		return
	}

	submission, err := ctrl.contactService.Resolve(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Submission not found",
			})
			return
		}
		log.Error("Failed to resolve contact submission", err, map[string]interface{}{
			"submission_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resolve submission",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Submission resolved",
		"submission": submission,
	})
}

// DeleteContact removes a contact submission
// DELETE /api/v1/admin/contacts/:id
func (ctrl *ModerationController) DeleteContact(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid submission ID",
		})
		return
	}

	if err := ctrl.contactService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Submission not found",
			})
			return
		}
		log.Error("Failed to delete contact submission", err, map[string]interface{}{
			"submission_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete submission",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Submission deleted",
	})
}

// ApplyAsSeller handles the public seller onboarding form
// POST /api/v1/seller/apply
func (ctrl *ModerationController) ApplyAsSeller(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.SellerApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	application, err := ctrl.sellerService.Apply(input)
	if err != nil {
		log.Error("Failed to save seller application", err, map[string]interface{}{
			"email": input.Email,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to submit application",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application received, we will review it shortly",
		"application": application,
	})
}

// ListSellerApplications returns seller applications for admin review
// GET /api/v1/admin/seller-applications
func (ctrl *ModerationController) ListSellerApplications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	applications, total, err := ctrl.sellerService.List(status, page, perPage)
	if err != nil {
		log.Error("Failed to list seller applications", err, map[string]interface{}{
			"status": status,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch seller applications",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        total,
		"page":         page,
	})
}

// SetSellerApplicationStatus approves or rejects an application
// PUT /api/v1/admin/seller-applications/:id/status
func (ctrl *ModerationController) SetSellerApplicationStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid application ID",
		})
		return
	}

	var req ApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	application, err := ctrl.sellerService.SetStatus(uint(id), model.ApplicationStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Application not found",
			})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid application status",
			})
		default:
			log.Error("Failed to update application status", err, map[string]interface{}{
				"application_id": id,
				"status":         req.Status,
			})
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update application status",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application status updated",
		"application": application,
	})
}

// SubscribeNewsletter adds an email to the newsletter list
// POST /api/v1/newsletter/subscribe
func (ctrl *ModerationController) SubscribeNewsletter(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if err := ctrl.newsletterService.Subscribe(req.Email); err != nil {
		if errors.Is(err, service.ErrAlreadySubscribed) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Email is already subscribed",
			})
			return
		}
		log.Error("Failed to subscribe email", err, map[string]interface{}{
			"email": req.Email,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to subscribe",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Subscribed to the newsletter",
	})
}

// UnsubscribeNewsletter removes an email from the newsletter list
// POST /api/v1/newsletter/unsubscribe
func (ctrl *ModerationController) UnsubscribeNewsletter(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if err := ctrl.newsletterService.Unsubscribe(req.Email); err != nil {
		if errors.Is(err, service.ErrNotSubscribed) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Email is not subscribed",
			})
			return
		}
		log.Error("Failed to unsubscribe email", err, map[string]interface{}{
			"email": req.Email,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to unsubscribe",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unsubscribed from the newsletter",
	})
}

// ListNewsletterSubscribers returns the subscriber list for admins
// GET /api/v1/admin/newsletter
func (ctrl *ModerationController) ListNewsletterSubscribers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	subscribers, total, err := ctrl.newsletterService.List(page, perPage)
	if err != nil {
		log.Error("Failed to list newsletter subscribers", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch subscribers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscribers": subscribers,
		"total":       total,
		"page":        page,
	})
}

// RemoveNewsletterSubscriber hard-deletes a subscriber row
// DELETE /api/v1/admin/newsletter/:id
func (ctrl *ModerationController) RemoveNewsletterSubscriber(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid subscriber ID",
		})
		return
	}

	if err := ctrl.newsletterService.RemoveSubscriber(uint(id)); err != nil {
		if errors.Is(err, service.ErrNotSubscribed) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Subscriber not found",
			})
			return
		}
		log.Error("Failed to remove newsletter subscriber", err, map[string]interface{}{
			"subscriber_id": id,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove subscriber",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Subscriber removed",
	})
}
