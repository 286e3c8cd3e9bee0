package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// internalError loga o detalhe e responde com mensagem genérica
func internalError(c *gin.Context, err error) {
	log.Printf("Erro interno em %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
