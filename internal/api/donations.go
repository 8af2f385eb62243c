package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edunaija/teachershub/internal/logger"
	"github.com/edunaija/teachershub/internal/payments"
	"github.com/edunaija/teachershub/internal/storage"
)

type donationRequest struct {
	Name   string  `json:"name"`
	Email  string  `json:"email" binding:"required,email"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// createDonation records a pending donation and opens a Paystack checkout
// for it. Donors do not need an account.
func (s *Server) createDonation(c *gin.Context) {
	if s.pay == nil {
		fail(c, http.StatusServiceUnavailable, "unavailable", "payments not configured")
		return
	}
	var req donationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	d := &storage.Donation{
		DonorName:  req.Name,
		DonorEmail: req.Email,
		Amount:     req.Amount,
		Reference:  "DON_" + uuid.NewString(),
	}
	if err := s.store.CreateDonation(d); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	auth, err := s.pay.Initialize(c.Request.Context(), payments.InitializeRequest{
		AmountKobo:  kobo(d.Amount),
		Email:       d.DonorEmail,
		Reference:   d.Reference,
		CallbackURL: fmt.Sprintf("%s/api/v1/donations/callback", s.appURL),
	})
	if err != nil {
		logger.Log.Errorf("paystack initialize donation: %v", err)
		fail(c, http.StatusBadGateway, "payment_init_failed", "could not start payment")
		return
	}
	created(c, gin.H{
		"authorizationUrl": auth.AuthorizationURL,
		"reference":        d.Reference,
	})
}

func (s *Server) donationCallback(c *gin.Context) {
	if s.pay == nil {
		fail(c, http.StatusServiceUnavailable, "unavailable", "payments not configured")
		return
	}
	reference := c.Query("reference")
	if reference == "" {
		reference = c.Query("trxref")
	}
	if reference == "" {
		fail(c, http.StatusBadRequest, "bad_request", "reference required")
		return
	}

	d, err := s.store.GetDonationByReference(reference)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "unknown reference")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not load donation")
		return
	}

	tx, err := s.pay.Verify(c.Request.Context(), reference)
	if err != nil {
		logger.Log.Errorf("paystack verify %s: %v", reference, err)
		fail(c, http.StatusBadGateway, "verify_failed", "could not verify payment")
		return
	}
	if !tx.Success() || tx.AmountKobo != kobo(d.Amount) {
		fail(c, http.StatusPaymentRequired, "payment_incomplete", "payment not settled")
		return
	}

	updated, err := s.store.MarkDonationPaid(reference)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not record payment")
		return
	}
	ok(c, updated)
}
