package response

import "github.com/gin-gonic/gin"

// Error writes the flat {error} shape the API promises for every
// failure, 4xx and 5xx alike.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}
