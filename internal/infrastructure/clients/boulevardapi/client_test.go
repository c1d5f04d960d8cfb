package boulevardapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/boulevard/internal/domain/entities"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

type staticToken string

func (s staticToken) Token(ctx context.Context) string { return string(s) }

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", staticToken(token))
}

func TestHTTPClient_AttachesBearerTokenWhenPresent(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantHeader string
	}{
		{name: "with token", token: "abc123", wantHeader: "Bearer abc123"},
		{name: "without token", token: "", wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth, gotRequestID string
			client := newTestClient(t, tt.token, func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotRequestID = r.Header.Get("X-Request-ID")
				w.Write([]byte(`[]`))
			})

			_, err := client.Establishments().List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, gotAuth)
			assert.NotEmpty(t, gotRequestID)
		})
	}
}

func TestHTTPClient_UnwrapsDataEnvelopeAndFlatBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "flat", body: `{"_id":"e1","nombre":"Pizzeria Roma","likes":["u1"]}`},
		{name: "wrapped", body: `{"data":{"_id":"e1","nombre":"Pizzeria Roma","likes":["u1"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/establecimientos/e1", r.URL.Path)
				w.Write([]byte(tt.body))
			})

			e, err := client.Establishments().GetByID(context.Background(), "e1")
			require.NoError(t, err)
			assert.Equal(t, "Pizzeria Roma", e.Name)
			assert.Equal(t, []string{"u1"}, e.LikerIDs())
		})
	}
}

func TestHTTPClient_NormalizesErrorPayloads(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantType    apperrors.ErrorType
		wantMessage string
		wantDetails []string
	}{
		{name: "flat message", status: 400, body: `{"message":"Nombre requerido"}`, wantType: apperrors.ErrorTypeValidation, wantMessage: "Nombre requerido"},
		{name: "spanish key", status: 500, body: `{"mensaje":"Error interno"}`, wantType: apperrors.ErrorTypeServer, wantMessage: "Error interno"},
		{name: "error string", status: 401, body: `{"error":"Token inválido"}`, wantType: apperrors.ErrorTypeUnauthenticated, wantMessage: "Token inválido"},
		{name: "nested error", status: 409, body: `{"error":{"message":"Ya existe","code":"DUP"}}`, wantType: apperrors.ErrorTypeConflict, wantMessage: "Ya existe"},
		{name: "wrapped in data", status: 404, body: `{"data":{"message":"No encontrado"}}`, wantType: apperrors.ErrorTypeNotFound, wantMessage: "No encontrado"},
		{
			name: "errors array", status: 422, body: `{"errors":[{"msg":"telefono inválido"},"nombre requerido"]}`,
			wantType: apperrors.ErrorTypeValidation, wantMessage: "telefono inválido",
			wantDetails: []string{"telefono inválido", "nombre requerido"},
		},
		{name: "non json", status: 502, body: `<html>bad gateway</html>`, wantType: apperrors.ErrorTypeServer, wantMessage: "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := client.Establishments().Like(context.Background(), "e1")
			require.Error(t, err)

			apiErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, apiErr.Type)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			if tt.wantDetails != nil {
				assert.Equal(t, tt.wantDetails, apiErr.Details)
			}
		})
	}
}

func TestHTTPClient_TransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, nil)
	_, err := client.Establishments().List(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
	assert.NotContains(t, apperrors.UserMessage(err), "connection refused")
}

func TestHTTPClient_CancelledContextReturnsContextError(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Establishments().List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEstablishmentAPI_RelationEndpoints(t *testing.T) {
	var paths []string
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	api := client.Establishments()
	ctx := context.Background()

	require.NoError(t, api.Like(ctx, "e1"))
	require.NoError(t, api.Unlike(ctx, "e1"))
	require.NoError(t, api.Follow(ctx, "e1"))
	require.NoError(t, api.Unfollow(ctx, "e1"))

	assert.Equal(t, []string{
		"/establecimientos/e1/like",
		"/establecimientos/e1/quitar-like",
		"/establecimientos/e1/seguir",
		"/establecimientos/e1/dejar-de-seguir",
	}, paths)
}

func TestEstablishmentAPI_SearchEncodesQueryAndSkipsEmpty(t *testing.T) {
	var calls int32
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/establecimientos/buscar", r.URL.Path)
		assert.Equal(t, "café rico", r.URL.Query().Get("nombre"))
		w.Write([]byte(`{"data":[{"_id":"e9","nombre":"Café Rico"}]}`))
	})

	results, err := client.Establishments().Search(context.Background(), "  café rico ")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "e9", results[0].ID)

	results, err = client.Establishments().Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestEstablishmentAPI_CreateSendsMultipart(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "Tacos El Güero", r.FormValue("nombre"))

		var locations []entities.Location
		if assert.NoError(t, json.Unmarshal([]byte(r.FormValue("ubicaciones")), &locations)) && assert.Len(t, locations, 1) {
			assert.Equal(t, "Av. Reforma 1", locations[0].Address)
		}

		files := r.MultipartForm.File["imagenes"]
		if assert.Len(t, files, 1) {
			assert.Equal(t, "front.jpg", files[0].Filename)
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id":"new1","nombre":"Tacos El Güero","estado":"pendiente"}`))
	})

	created, err := client.Establishments().Create(context.Background(), &entities.EstablishmentForm{
		Name:        "Tacos El Güero",
		Description: "Tacos al pastor",
		Phone:       "5551234567",
		Locations:   []entities.Location{{Address: "Av. Reforma 1", Latitude: 19.4, Longitude: -99.1}},
		Files:       []entities.Upload{{Filename: "front.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "new1", created.ID)
	assert.Equal(t, entities.ModerationPending, created.ModerationState)
}

func TestEstablishmentAPI_UpdateUsesJSONWithoutFiles(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"nombre":"Nuevo"`)
		w.Write([]byte(`{"_id":"e1","nombre":"Nuevo"}`))
	})

	updated, err := client.Establishments().Update(context.Background(), "e1", &entities.EstablishmentForm{Name: "Nuevo"})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", updated.Name)
}

func TestEstablishmentAPI_UpdateUsesMultipartWithFiles(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		w.Write([]byte(`{"_id":"e1"}`))
	})

	_, err := client.Establishments().Update(context.Background(), "e1", &entities.EstablishmentForm{
		Name:  "Nuevo",
		Files: []entities.Upload{{Filename: "a.png", ContentType: "image/png", Data: []byte("png")}},
	})
	require.NoError(t, err)
}

func TestEstablishmentAPI_ModerationValidatesStateLocally(t *testing.T) {
	var calls int32
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPut, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"estado":"aprobado"}`, string(body))
	})

	err := client.Establishments().SetModerationState(context.Background(), "e1", "publicado")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	require.NoError(t, client.Establishments().SetModerationState(context.Background(), "e1", entities.ModerationApproved))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNotificationAPI_MarkRead(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/notificaciones/n1", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"leida":true}`, string(body))
	})

	require.NoError(t, client.Notifications().MarkRead(context.Background(), "n1", true))
}

func TestCommentAPI_CreateFillsEstablishmentID(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		var in entities.CommentInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, 4, in.Rating)
		w.Write([]byte(`{"_id":"c1","calificacion":4,"comentario":"Muy bueno","usuario":{"_id":"u1","nombre":"Ana"}}`))
	})

	c, err := client.Comments().Create(context.Background(), &entities.CommentInput{EstablishmentID: "e1", Rating: 4, Body: "Muy bueno"})
	require.NoError(t, err)
	assert.Equal(t, "e1", c.Establishment.ID)
	assert.Equal(t, "Ana", c.Author.Name)
}

func TestCommentAPI_AcceptsPopulatedEstablishment(t *testing.T) {
	const comment = `{"_id":"c1","establecimiento":{"_id":"e1","nombre":"Pizzeria Roma"},"calificacion":4,"comentario":"Muy bueno","usuario":"u1"}`
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/comentarios":
			w.Write([]byte(comment))
		case "/comentarios/establecimiento/e1":
			w.Write([]byte(`[` + comment + `]`))
		case "/establecimientos/e1":
			w.Write([]byte(`{"_id":"e1","nombre":"Pizzeria Roma","comentarios":[` + comment + `]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	created, err := client.Comments().Create(ctx, &entities.CommentInput{EstablishmentID: "e1", Rating: 4, Body: "Muy bueno"})
	require.NoError(t, err)
	assert.Equal(t, entities.Ref{ID: "e1", Name: "Pizzeria Roma"}, created.Establishment)
	assert.Equal(t, "u1", created.Author.ID)

	listed, err := client.Comments().ListByEstablishment(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "e1", listed[0].Establishment.ID)

	e, err := client.Establishments().GetByID(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, e.Comments, 1)
	assert.Equal(t, "e1", e.Comments[0].Establishment.ID)
}

func TestCommentAPI_UpdatePatchesComment(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/comentarios/c1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"establecimiento":"e1","calificacion":2,"comentario":"Bajó la calidad"}`, string(body))
		w.Write([]byte(`{"data":{"_id":"c1","establecimiento":"e1","calificacion":2,"comentario":"Bajó la calidad"}}`))
	})

	c, err := client.Comments().Update(context.Background(), "c1", &entities.CommentInput{EstablishmentID: "e1", Rating: 2, Body: "Bajó la calidad"})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Rating)
	assert.Equal(t, "e1", c.Establishment.ID)
}

func TestChatAPI_DecodesReplyShapes(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantReply     string
		wantSuggested int
	}{
		{name: "plain string", body: `"Te recomiendo probar tacos"`, wantReply: "Te recomiendo probar tacos"},
		{name: "list", body: `[{"_id":"e1"},{"_id":"e2"}]`, wantSuggested: 2},
		{name: "object reply", body: `{"respuesta":"Hola"}`, wantReply: "Hola"},
		{name: "wrapped suggestions", body: `{"data":{"establecimientos":[{"_id":"e1"}]}}`, wantSuggested: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			reply, err := client.Chat().Ask(context.Background(), "¿dónde como?")
			require.NoError(t, err)
			assert.Equal(t, tt.wantReply, reply.Reply)
			assert.Len(t, reply.Establishments, tt.wantSuggested)
		})
	}
}

func TestChatAPI_EmptyMessageIsRejectedLocally(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", nil)
	_, err := client.Chat().Ask(context.Background(), "  ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
