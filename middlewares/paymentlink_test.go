package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"medisight/utils"
)

func newPayRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/pay/:invoice_id", ValidatePaymentLink(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestValidatePaymentLink(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	router := newPayRouter()

	token, err := utils.GeneratePaymentToken("INV-1001")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/pay/INV-1001?accessToken="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestValidatePaymentLinkRejectsMismatchedInvoice(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	router := newPayRouter()

	token, err := utils.GeneratePaymentToken("INV-1001")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/pay/INV-2002?accessToken="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestValidatePaymentLinkMissingToken(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	router := newPayRouter()

	req := httptest.NewRequest(http.MethodPost, "/pay/INV-1001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
