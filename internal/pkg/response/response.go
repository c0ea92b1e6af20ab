package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Redirect tells the client where to navigate next. Browsers asking for HTML
// get a real 303; API clients get a JSON envelope they can follow themselves.
func Redirect(c *gin.Context, location string) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, location)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": location,
	})
}

// RedirectAbort is Redirect for middleware: it stops the chain afterwards.
func RedirectAbort(c *gin.Context, status int, code, location string) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, location)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": "redirect required",
		},
		"redirect": location,
	})
}

func wantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML && c.GetHeader("Accept") != ""
}
