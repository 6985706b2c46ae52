package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetTerminals lists every provider with its connection state.
func (h *Handler) GetTerminals(c *gin.Context) {
	c.JSON(http.StatusOK, h.connect.Terminals())
}

// GetConnectedTerminals lists the connected terminals.
func (h *Handler) GetConnectedTerminals(c *gin.Context) {
	c.JSON(http.StatusOK, h.connect.ConnectedTerminals())
}

// ConnectTerminal starts connecting a provider. By default the sequence
// runs in the background and the client polls the status route;
// with ?wait=true the request blocks until it finishes.
func (h *Handler) ConnectTerminal(c *gin.Context) {
	id := c.Param("id")

	if c.Query("wait") == "true" {
		res := h.connect.Connect(c.Request.Context(), id)
		if !res.Success {
			c.JSON(connectErrorStatus(res.Err), res)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	if err := h.connectInBackground(id); err != nil {
		c.JSON(connectErrorStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": id, "status": "connecting"})
}

// GetTerminalStatus reports the connection state and progress of a provider.
func (h *Handler) GetTerminalStatus(c *gin.Context) {
	id := c.Param("id")
	st := h.connect.State(id)
	c.JSON(http.StatusOK, gin.H{"id": id, "status": st.Status, "progress": st.Progress})
}

// DisconnectTerminal removes a provider from the connected list and
// forgets its OAuth credential.
func (h *Handler) DisconnectTerminal(c *gin.Context) {
	id := c.Param("id")
	res := h.connect.Disconnect(c.Request.Context(), id)
	if !res.Success {
		c.JSON(connectErrorStatus(res.Err), res)
		return
	}
	if h.store != nil {
		if err := h.store.DeleteCredential(c.Request.Context(), id); err != nil {
			log.Printf("Error deleting %s credential: %v", id, err)
		}
	}
	c.JSON(http.StatusOK, res)
}
