package gameerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(New(KindValidation, "bad input")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(New(KindNotFound, "missing")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(New(KindForbidden, "no")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(New(KindConflict, "busy")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(New(KindDependency, "down")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindDependency, cause, "写入失败")

	require.True(t, errors.Is(err, cause))
	assert.True(t, Is(err, KindDependency))
	assert.Equal(t, KindDependency, KindOf(err))
}

func TestKindSurvivesFurtherWrapping(t *testing.T) {
	inner := New(KindForbidden, "不允许")
	outer := fmt.Errorf("外层: %w", inner)

	assert.True(t, Is(outer, KindForbidden))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(outer))
}
