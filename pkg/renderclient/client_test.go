package renderclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-optimizer/internal/model"
)

func request() model.RenderRequest {
	return model.RenderRequest{
		Template: model.TemplateModern,
		Resume:   model.StructuredResume{Contact: model.Contact{Name: "Jane Doe"}},
		Options:  model.RenderOptions{ColorScheme: "green"},
	}
}

func TestRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/render", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var got model.RenderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Jane Doe", got.Resume.Contact.Name)
		assert.Equal(t, "green", got.Options.ColorScheme)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 test"))
	}))
	defer srv.Close()

	out, err := New(srv.URL+"/", 0).Render(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 test"), out)
}

func TestRender_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Validation error: resume.contact.name: required"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Render(context.Background(), request())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "Validation error: resume.contact.name: required", se.Message)
}

func TestRender_NotAPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Render(context.Background(), request())
	assert.ErrorIs(t, err, ErrRemote)
}

func TestRender_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := New(srv.URL, 50*time.Millisecond).Render(context.Background(), request())
	assert.ErrorIs(t, err, ErrRemote)
}

func TestRender_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).Render(context.Background(), request())
	assert.ErrorIs(t, err, ErrRemote)
}
