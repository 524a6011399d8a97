package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"medisight/utils"
)

// ValidatePaymentLink authenticates pay-by-link requests with the signed
// token embedded in follow-up notices. The token binds the request to one
// invoice, so the path parameter must match the token's claim.
func ValidatePaymentLink() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("accessToken")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Payment link token is missing"})
			c.Abort()
			return
		}

		claims, err := utils.ValidatePaymentToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Payment link is invalid or expired"})
			c.Abort()
			return
		}
		if claims.InvoiceID != c.Param("invoice_id") {
			c.JSON(http.StatusForbidden, gin.H{"error": "Payment link does not match this invoice"})
			c.Abort()
			return
		}

		c.Next()
	}
}
