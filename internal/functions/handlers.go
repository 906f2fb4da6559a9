package functions

import (
	"net/http"
	"strings"
	"time"

	"pareto_backend/internal/logger"
	"pareto_backend/internal/services/dto"
)

type createApprovedUserBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateApprovedUser turns an applicant into a fellow account.
func (h *Handler) CreateApprovedUser(w http.ResponseWriter, r *http.Request) {
	var body createApprovedUserBody
	if !decode(w, r, &body) {
		return
	}
	if missing(body.Name, body.Email) {
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	}

	start := time.Now()
	res, err := h.services.AccountService.CreateApprovedUser(r.Context(), h.dbFor(r), &dto.CreateApprovedUserRequest{
		Name:  body.Name,
		Email: body.Email,
	})
	if err != nil {
		writeServiceError(w, r, "create-approved-user", err)
		return
	}
	logger.CtxInfo(r.Context(), "Approved user provisioned",
		"user_id", res.UserID, "user_created", res.UserCreated, "duration_ms", since(start))

	writeSuccess(w, map[string]interface{}{
		"userId":         res.UserID,
		"email":          res.Email,
		"profileId":      res.ProfileID,
		"userCreated":    res.UserCreated,
		"profileCreated": res.ProfileCreated,
		"emailSent":      res.EmailSent,
	})
}

type emailBody struct {
	Email string `json:"email"`
}

func (h *Handler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	var body emailBody
	if !decode(w, r, &body) {
		return
	}
	if missing(body.Email) {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	user, err := h.services.AccountService.GetUserByEmail(h.dbFor(r), body.Email)
	if err != nil {
		writeServiceError(w, r, "get-user-by-email", err)
		return
	}
	writeSuccess(w, map[string]interface{}{
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

type acceptanceBody struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	TemporaryPassword string `json:"temporaryPassword"`
}

func (h *Handler) SendAcceptanceEmail(w http.ResponseWriter, r *http.Request) {
	var body acceptanceBody
	if !decode(w, r, &body) {
		return
	}
	if missing(body.Name, body.Email) {
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	}

	if err := h.services.EmailService.SendAcceptance(r.Context(), body.Email, body.Name, body.TemporaryPassword); err != nil {
		writeServiceError(w, r, "send-acceptance-email", err)
		return
	}
	writeSuccess(w, map[string]interface{}{"message": "Acceptance email sent"})
}

type confirmationBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) SendConfirmationEmail(w http.ResponseWriter, r *http.Request) {
	var body confirmationBody
	if !decode(w, r, &body) {
		return
	}
	if missing(body.Name, body.Email) {
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	}

	if err := h.services.EmailService.SendConfirmation(r.Context(), body.Email, body.Name); err != nil {
		writeServiceError(w, r, "send-confirmation-email", err)
		return
	}
	writeSuccess(w, map[string]interface{}{"message": "Confirmation email sent"})
}

type magicLinkBody struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirectTo"`
}

// SendMagicLink checks the user exists before sending; unknown emails are a 404.
func (h *Handler) SendMagicLink(w http.ResponseWriter, r *http.Request) {
	var body magicLinkBody
	if !decode(w, r, &body) {
		return
	}
	if missing(body.Email) {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	err := h.services.AuthService.RequestMagicLink(r.Context(), h.dbFor(r), &dto.MagicLinkRequest{
		Email:      body.Email,
		RedirectTo: body.RedirectTo,
	}, clientIP(r))
	if err != nil {
		writeServiceError(w, r, "send-magic-link", err)
		return
	}
	writeSuccess(w, map[string]interface{}{"message": "Magic link sent"})
}

func (h *Handler) SendApplicationEmail(w http.ResponseWriter, r *http.Request) {
	var body dto.ApplicationInterest
	if !decode(w, r, &body) {
		return
	}
	if missing(body.FellowName, body.FellowEmail, body.Position, body.Company) {
		writeError(w, http.StatusBadRequest, "fellowName, fellowEmail, position and company are required")
		return
	}

	if err := h.services.EmailService.SendApplicationInterest(r.Context(), &body); err != nil {
		writeServiceError(w, r, "send-application-email", err)
		return
	}
	writeSuccess(w, map[string]interface{}{"message": "Application email sent"})
}

type bucketBody struct {
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

func (h *Handler) CreateBucket(w http.ResponseWriter, r *http.Request) {
	var body bucketBody
	if !decode(w, r, &body) {
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Bucket name is required")
		return
	}

	if err := h.services.UploadService.CreateBucket(r.Context(), name, body.Public); err != nil {
		writeServiceError(w, r, "create-bucket", err)
		return
	}
	logger.CtxInfo(r.Context(), "Bucket provisioned", "bucket", name, "public", body.Public)
	writeSuccess(w, map[string]interface{}{"bucket": name, "public": body.Public})
}
