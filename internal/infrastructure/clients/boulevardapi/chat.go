package boulevardapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zatekoja/boulevard/internal/domain/entities"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// ChatAPI implements repositories.ChatRepository over HTTP
type ChatAPI struct {
	c *HTTPClient
}

// Ask sends a free-text message to the assistant. The backend answers with a
// plain string, a list of establishments, or an object carrying either.
func (a *ChatAPI) Ask(ctx context.Context, message string) (*entities.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message is required")
	}

	raw, err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/chat",
		route:  "/chat",
		body:   map[string]string{"mensaje": message},
	})
	if err != nil {
		return nil, err
	}

	reply, err := decodeChatReply(raw)
	if err != nil {
		return nil, apperrors.NewInternalError("unexpected response from assistant", err)
	}
	return reply, nil
}

func decodeChatReply(raw []byte) (*entities.ChatReply, error) {
	if inner, ok := unwrapData(raw); ok {
		raw = inner
	}
	raw = bytes.TrimSpace(raw)
	reply := &entities.ChatReply{}
	if len(raw) == 0 {
		return reply, nil
	}

	switch raw[0] {
	case '"':
		err := json.Unmarshal(raw, &reply.Reply)
		return reply, err
	case '[':
		err := json.Unmarshal(raw, &reply.Establishments)
		return reply, err
	}

	var obj struct {
		Respuesta        string                   `json:"respuesta"`
		Reply            string                   `json:"reply"`
		Message          string                   `json:"message"`
		Establecimientos []entities.Establishment `json:"establecimientos"`
		Sugerencias      []entities.Establishment `json:"sugerencias"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	reply.Reply = firstNonEmpty(obj.Respuesta, obj.Reply, obj.Message)
	reply.Establishments = obj.Establecimientos
	if len(reply.Establishments) == 0 {
		reply.Establishments = obj.Sugerencias
	}
	return reply, nil
}
