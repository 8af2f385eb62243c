package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edunaija/teachershub/internal/logger"
	"github.com/edunaija/teachershub/internal/payments"
	"github.com/edunaija/teachershub/internal/storage"
)

func (s *Server) listRunningAdverts(c *gin.Context) {
	list, err := s.store.ListRunningAdverts()
	if err != nil {
		logger.Log.Errorf("list running adverts: %v", err)
		fail(c, http.StatusInternalServerError, "internal", "could not load adverts")
		return
	}
	ok(c, list)
}

type advertRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=500"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl" binding:"omitempty,url"`
	LinkURL     string `json:"linkUrl" binding:"omitempty,url"`
	ButtonText  string `json:"buttonText" binding:"max=100"`
	Weeks       int    `json:"weeks" binding:"required,min=1,max=52"`
}

func (s *Server) submitAdvert(c *gin.Context) {
	var req advertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	userID := currentUserID(c)
	a, err := s.store.CreateAdvert(userID, storage.AdvertInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		LinkURL:     req.LinkURL,
		ButtonText:  req.ButtonText,
		Weeks:       req.Weeks,
	})
	if err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	s.store.RecordActivity(userID, "advert_submit", fmt.Sprintf("submitted advert %q", a.Title), map[string]any{"advertId": a.ID})
	created(c, a)
}

func (s *Server) myAdverts(c *gin.Context) {
	list, err := s.store.ListAdvertsByUser(currentUserID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not load adverts")
		return
	}
	ok(c, list)
}

func kobo(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// payAdvert starts a Paystack checkout for the advert's priced amount and
// returns the authorization URL the payer is redirected to.
func (s *Server) payAdvert(c *gin.Context) {
	if s.pay == nil {
		fail(c, http.StatusServiceUnavailable, "unavailable", "payments not configured")
		return
	}
	id, okID := idParam(c)
	if !okID {
		return
	}

	a, err := s.store.GetAdvert(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail(c, http.StatusNotFound, "not_found", "advert not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not load advert")
		return
	}
	userID := currentUserID(c)
	if a.SubmittedBy != userID {
		fail(c, http.StatusForbidden, "forbidden", "not your advert")
		return
	}
	if a.PaymentStatus == storage.PaymentStatusPaid {
		fail(c, http.StatusBadRequest, "already_paid", "advert is already paid for")
		return
	}
	if a.Status == storage.AdvertStatusRejected {
		fail(c, http.StatusBadRequest, "rejected", "advert was rejected")
		return
	}

	u, err := s.store.GetUser(userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not load user")
		return
	}

	reference := fmt.Sprintf("ADV_%d_%d", a.ID, time.Now().Unix())
	auth, err := s.pay.Initialize(c.Request.Context(), payments.InitializeRequest{
		AmountKobo:  kobo(a.Amount),
		Email:       u.Email,
		Reference:   reference,
		CallbackURL: fmt.Sprintf("%s/api/v1/adverts/%d/payment-callback", s.appURL, a.ID),
		Metadata:    map[string]any{"advertId": a.ID, "userId": userID},
	})
	if err != nil {
		logger.Log.Errorf("paystack initialize: %v", err)
		fail(c, http.StatusBadGateway, "payment_init_failed", "could not start payment")
		return
	}
	ok(c, gin.H{
		"authorizationUrl": auth.AuthorizationURL,
		"reference":        auth.Reference,
		"amount":           a.Amount,
	})
}

// advertPaymentCallback is the Paystack redirect target. The reference is
// re-verified with the provider before anything is marked paid.
func (s *Server) advertPaymentCallback(c *gin.Context) {
	if s.pay == nil {
		fail(c, http.StatusServiceUnavailable, "unavailable", "payments not configured")
		return
	}
	id, okID := idParam(c)
	if !okID {
		return
	}
	reference := c.Query("reference")
	if reference == "" {
		reference = c.Query("trxref")
	}
	if !strings.HasPrefix(reference, fmt.Sprintf("ADV_%d_", id)) {
		fail(c, http.StatusBadRequest, "bad_request", "reference does not match advert")
		return
	}

	a, err := s.store.GetAdvert(id)
	if err != nil {
		fail(c, http.StatusNotFound, "not_found", "advert not found")
		return
	}

	tx, err := s.pay.Verify(c.Request.Context(), reference)
	if err != nil {
		logger.Log.Errorf("paystack verify %s: %v", reference, err)
		fail(c, http.StatusBadGateway, "verify_failed", "could not verify payment")
		return
	}
	if !tx.Success() || tx.AmountKobo != kobo(a.Amount) {
		fail(c, http.StatusPaymentRequired, "payment_incomplete", "payment not settled")
		return
	}

	updated, err := s.store.MarkAdvertPaid(a.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not record payment")
		return
	}
	s.store.RecordActivity(a.SubmittedBy, "advert_paid", fmt.Sprintf("paid for advert %q", a.Title), map[string]any{
		"advertId":  a.ID,
		"reference": reference,
	})
	ok(c, updated)
}
