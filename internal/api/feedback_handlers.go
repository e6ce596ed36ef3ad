package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"livemart-be/internal/account"
	"livemart-be/internal/feedback"
	"livemart-be/internal/logger"
	"livemart-be/internal/mail"
	"livemart-be/internal/transport"
)

type addFeedbackRequest struct {
	ProductID int64  `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (s *Server) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	c, ok := s.currentCustomer(w, r)
	if !ok {
		return
	}

	var req addFeedbackRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := s.feedback.Add(r.Context(), c.ID, req.ProductID, req.Rating, req.Comment)
	switch {
	case errors.Is(err, feedback.ErrInvalidRating):
		transport.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, feedback.ErrProductNotFound):
		transport.WriteError(w, http.StatusNotFound, "product not found")
		return
	case err != nil:
		logger.FromCtx(r.Context()).Error("add feedback", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not save feedback")
		return
	}

	transport.WriteJSON(w, http.StatusCreated, f)
}

func (s *Server) handleProductFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	list, err := s.feedback.ListByProduct(r.Context(), id)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list product feedback", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not load feedback")
		return
	}
	if list == nil {
		list = []*feedback.Feedback{}
	}
	transport.WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleRetailerFeedback(w http.ResponseWriter, r *http.Request) {
	retailer, ok := s.currentBusiness(w, r, account.RoleRetailer)
	if !ok {
		return
	}

	list, err := s.feedback.ListByRetailer(r.Context(), retailer.ID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list retailer feedback", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not load feedback")
		return
	}
	if list == nil {
		list = []*feedback.Feedback{}
	}
	transport.WriteJSON(w, http.StatusOK, list)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// handleContact forwards a visitor query to the site admin mailbox.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		transport.WriteError(w, http.StatusBadRequest, "name, email and message are required")
		return
	}

	s.mailer.Send(
		s.cfg.AdminEmail,
		mail.ContactQuerySubject(req.Subject),
		mail.ContactQueryBody(req.Name, req.Email, req.Message),
	)

	transport.WriteJSON(w, http.StatusOK, map[string]string{"message": "Your query has been sent"})
}
