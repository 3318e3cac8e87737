package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnquest/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation: http.StatusBadRequest,
		apperr.KindConflict:   http.StatusConflict,
		apperr.KindAuth:       http.StatusUnauthorized,
		apperr.KindResource:   http.StatusUnprocessableEntity,
		apperr.KindNotFound:   http.StatusNotFound,
		apperr.KindInternal:   http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, StatusFor(kind), kind)
	}
}

func render(err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, err)

	var env ErrorEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestErrorEnvelope(t *testing.T) {
	w, env := render(apperr.New(apperr.KindResource, "insufficient_sp", "not enough skill points"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperr.KindResource, env.Error.Kind)
	assert.Equal(t, "insufficient_sp", env.Error.Code)
	assert.Equal(t, "not enough skill points", env.Error.Message)
}

func TestErrorHidesInternalDetail(t *testing.T) {
	w, env := render(errors.New("pq: connection refused to 10.0.0.5"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", env.Error.Message)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestUnauthorizedIsUniform(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Unauthorized(c)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthenticated", env.Error.Code)
	assert.Equal(t, "authentication required", env.Error.Message)
}
