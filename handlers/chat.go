package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wayplan/services"
)

type chatRequest struct {
	Messages    []services.ChatMessage `json:"messages" binding:"required"`
	Destination string                 `json:"destination"`
	Lat         float64                `json:"lat"`
	Lng         float64                `json:"lng"`
}

// chatReply runs the assistant call with the shared fallback policy.
func chatReply(ctx context.Context, req chatRequest) (*services.ChatReply, error) {
	reply, err := services.GetAIClient().Chat(ctx, req.Messages, req.Destination, req.Lat, req.Lng)
	if err != nil {
		if !services.FallbackEnabled() {
			return nil, err
		}
		log.Printf("⚠️  AI chat failed: %v, using fallback reply", err)
		reply = services.FallbackChatReply(req.Messages, req.Destination, req.Lat, req.Lng)
	}
	return reply, nil
}

// ChatStreamHandler serves POST /api/ai/chat as a server-sent event stream:
// a sequence of {"chunk": ...} events followed by one
// {"done": true, "recommendations": [...]}.
func ChatStreamHandler(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	reply, err := chatReply(ctx, req)
	if err != nil {
		upstreamError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming unsupported"})
		return
	}

	// Chunk the reply on word boundaries so the client renders it
	// progressively.
	words := strings.Fields(reply.Text)
	var chunk strings.Builder
	for i, w := range words {
		chunk.WriteString(w)
		if i < len(words)-1 {
			chunk.WriteString(" ")
		}
		if chunk.Len() >= 48 || i == len(words)-1 {
			payload, _ := json.Marshal(gin.H{"chunk": chunk.String()})
			fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
			flusher.Flush()
			chunk.Reset()
		}
		select {
		case <-c.Request.Context().Done():
			return
		default:
		}
	}

	done, _ := json.Marshal(gin.H{"done": true, "recommendations": reply.Recommendations})
	fmt.Fprintf(c.Writer, "data: %s\n\n", done)
	flusher.Flush()
}

// ChatHandler is the non-streaming fallback at POST /api/chat.
func ChatHandler(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	reply, err := chatReply(ctx, req)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
