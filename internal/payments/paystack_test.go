package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	var gotAuth string
	var gotBody InitializeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.paystack.com/abc",
				"access_code":       "abc",
				"reference":         gotBody.Reference,
			},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("sk_test_key", srv.URL)
	auth, err := c.Initialize(context.Background(), InitializeRequest{
		AmountKobo:  250000,
		Email:       "amina@example.ng",
		Reference:   "ADV_1_1700000000",
		CallbackURL: "http://localhost:9000/api/v1/adverts/1/payment-callback",
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer sk_test_key", gotAuth)
	require.EqualValues(t, 250000, gotBody.AmountKobo)
	require.Equal(t, "https://checkout.paystack.com/abc", auth.AuthorizationURL)
	require.Equal(t, "ADV_1_1700000000", auth.Reference)
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/DON_x", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"status":    "success",
				"reference": "DON_x",
				"amount":    250000,
			},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("sk_test_key", srv.URL)
	tx, err := c.Verify(context.Background(), "DON_x")
	require.NoError(t, err)
	require.True(t, tx.Success())
	require.EqualValues(t, 250000, tx.AmountKobo)
}

func TestProviderFailureIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("sk_bad", srv.URL)
	_, err := c.Verify(context.Background(), "ref")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid key")
}

func TestMissingKeyShortCircuits(t *testing.T) {
	c := NewClient("")
	_, err := c.Verify(context.Background(), "ref")
	require.ErrorIs(t, err, ErrNotConfigured)
}
