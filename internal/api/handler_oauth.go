package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tapid-connect/internal/oauth"
	"tapid-connect/internal/store"
)

// GetOAuthAuthorize returns the provider consent URL. With ?redirect=true
// the browser is sent there directly.
func (h *Handler) GetOAuthAuthorize(c *gin.Context) {
	if h.oauth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "oauth is not configured"})
		return
	}
	authURL, err := h.oauth.AuthorizeURL(c.Param("provider"))
	if err != nil {
		c.JSON(oauthErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if c.Query("redirect") == "true" {
		c.Redirect(http.StatusFound, authURL)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": authURL})
}

// GetOAuthCallback completes the authorisation, stores the credential and
// starts connecting the provider.
func (h *Handler) GetOAuthCallback(c *gin.Context) {
	if h.oauth == nil || h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "oauth is not configured"})
		return
	}
	provider := c.Param("provider")
	if denied := c.Query("error"); denied != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": denied})
		return
	}

	cred, err := h.oauth.Callback(c.Request.Context(), provider, c.Query("code"), c.Query("state"))
	if err != nil {
		c.JSON(oauthErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if err := h.store.SaveCredential(c.Request.Context(), *cred); err != nil {
		log.Printf("Error saving %s credential: %v", provider, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"provider": provider, "merchantCode": cred.MerchantCode, "merchantName": cred.MerchantName}
	if err := h.connectInBackground(provider); err != nil {
		resp["status"] = "authorized"
		resp["error"] = err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}
	resp["status"] = "connecting"
	c.JSON(http.StatusAccepted, resp)
}

// GetOAuthCredential reports whether a provider holds a stored
// credential. Tokens are never returned.
func (h *Handler) GetOAuthCredential(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database is not configured"})
		return
	}
	provider := c.Param("provider")
	cred, err := h.store.Credential(c.Request.Context(), provider)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no credential for " + provider})
		return
	}
	if err != nil {
		log.Printf("Error reading %s credential: %v", provider, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider":     cred.Provider,
		"merchantCode": cred.MerchantCode,
		"merchantName": cred.MerchantName,
		"authorizedAt": cred.UpdatedAt,
		"expiresAt":    cred.ExpiresAt,
		"expired":      cred.ExpiresAt != nil && !cred.ExpiresAt.After(time.Now()),
	})
}

func oauthErrorStatus(err error) int {
	switch {
	case errors.Is(err, oauth.ErrUnknownProvider):
		return http.StatusNotFound
	case errors.Is(err, oauth.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, oauth.ErrInvalidState), errors.Is(err, oauth.ErrMissingCode):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
