package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesCauseAndKind(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(KindConnectivity, cause, "Failed to load products")

	require.Error(t, err)
	assert.True(t, errors.Is(err, cause), "cause should stay reachable through Unwrap")
	assert.Equal(t, KindConnectivity, KindOf(err))
	assert.Equal(t, "Failed to load products", MessageOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrap_NilErrorStaysNil(t *testing.T) {
	assert.NoError(t, Wrap(KindUpload, nil, "ignored"))
}

func TestKindOf_FindsKindThroughFmtWrapping(t *testing.T) {
	inner := New(KindNotFound, "Collection not found")
	outer := fmt.Errorf("catalog: resolve: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(outer))
	assert.True(t, Is(outer, KindNotFound))
	assert.False(t, Is(outer, KindAuth))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "Internal server error", MessageOf(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindAuth:         http.StatusUnauthorized,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindUpload:       http.StatusBadGateway,
		KindConnectivity: http.StatusInternalServerError,
		KindConfig:       http.StatusInternalServerError,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), "kind %s", kind)
	}
}
