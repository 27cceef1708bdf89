package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("time_conflict", "x"), http.StatusUnprocessableEntity},
		{"not found", NotFoundErr("appointment_not_found"), http.StatusNotFound},
		{"unauthorized", Forbidden("staff_only"), http.StatusForbidden},
		{"conflict", Conflict("concurrent_update"), http.StatusConflict},
		{"invalid transition", InvalidTransition("terminal_state"), http.StatusConflict},
		{"unavailable", Unavailable("no_slot_available"), http.StatusNotFound},
		{"wrapped", fmt.Errorf("create: %w", Validation("too_soon")), http.StatusUnprocessableEntity},
		{"unique violation", &pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestKindHelpers(t *testing.T) {
	err := fmt.Errorf("wrap: %w", InvalidTransition("not_started_yet"))

	k, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidTransition, k)
	assert.True(t, IsKind(err, KindInvalidTransition))
	assert.True(t, IsBusiness(err, "not_started_yet"))
	assert.False(t, IsBusiness(err, "terminal_state"))

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func serve(err error) (*httptest.ResponseRecorder, HTTPError) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromError(c, zerolog.Nop(), err)

	var body HTTPError
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestFromErrorCarriesReasons(t *testing.T) {
	w, body := serve(Validation("time_conflict", "conflito com outro agendamento"))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "time_conflict", body.Code)
	assert.Equal(t, []string{"conflito com outro agendamento"}, body.Reasons)
}

func TestFromErrorHidesInternals(t *testing.T) {
	w, body := serve(errors.New("dial tcp: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", body.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")

	w, body = serve(&pgconn.PgError{Code: "40001"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", body.Code)
}
