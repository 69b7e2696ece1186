package handler

import (
	"encoding/json"
	"net/http"

	"github.com/veltra-services/fieldservice-api/internal/auth"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService    *service.AuthService
	paymentService *service.PaymentService
	logger         *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, paymentService *service.PaymentService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		paymentService: paymentService,
		logger:         logger,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create an admin or technician account. Admins receive a generated company code for linking technicians.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Account data"
// @Success 201 {object} domain.LoginResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to register account")
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Get own profile
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.authService.GetProfile(r.Context(), userCtx.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// LinkCompany godoc
// @Summary Link to a company
// @Description Link the authenticated technician to an admin's company by company code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LinkCompanyRequest true "Company code"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse "Only technicians can link"
// @Failure 404 {object} domain.ErrorResponse "Unknown company code"
// @Security BearerAuth
// @Router /auth/link-company [post]
func (h *AuthHandler) LinkCompany(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req domain.LinkCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	profile, err := h.authService.LinkCompany(r.Context(), userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to link company")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateNotificationPrefs godoc
// @Summary Update notification preferences
// @Description Partial update: omitted fields keep their current value
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.UpdateNotificationPrefsRequest true "Preferences"
// @Success 200 {object} domain.UserDTO
// @Security BearerAuth
// @Router /auth/me/notification-prefs [put]
func (h *AuthHandler) UpdateNotificationPrefs(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req domain.UpdateNotificationPrefsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.authService.UpdateNotificationPrefs(r.Context(), userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update notification preferences")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateSubscription godoc
// @Summary Update subscription plan
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.UpdateSubscriptionRequest true "Plan"
// @Success 200 {object} domain.UserDTO
// @Security BearerAuth
// @Router /auth/me/subscription [put]
func (h *AuthHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req domain.UpdateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	profile, err := h.authService.UpdateSubscription(r.Context(), userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update subscription")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdatePaymentLink godoc
// @Summary Update payment link
// @Description Store the payment link rendered as a QR code for field payments
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.UpdatePaymentLinkRequest true "Payment link"
// @Success 200 {object} domain.UserDTO
// @Security BearerAuth
// @Router /auth/me/payment-link [put]
func (h *AuthHandler) UpdatePaymentLink(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req domain.UpdatePaymentLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	profile, err := h.authService.UpdatePaymentLink(r.Context(), userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update payment link")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// PaymentQR godoc
// @Summary Get payment QR code
// @Description Render the payment link (own, or the linked admin's) as a PNG QR code
// @Tags Auth
// @Produce image/png
// @Success 200
// @Failure 404 {object} domain.ErrorResponse "No payment link configured"
// @Security BearerAuth
// @Router /auth/me/payment-qr [get]
func (h *AuthHandler) PaymentQR(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	png, err := h.paymentService.PaymentQR(r.Context(), userCtx.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to render payment QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// ListTechnicians godoc
// @Summary List linked technicians
// @Description List technician accounts linked to the authenticated admin's company
// @Tags Auth
// @Produce json
// @Success 200 {array} domain.UserDTO
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/technicians [get]
func (h *AuthHandler) ListTechnicians(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	technicians, err := h.authService.ListTechnicians(r.Context(), userCtx.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list technicians")
		return
	}

	respondJSON(w, http.StatusOK, technicians)
}
