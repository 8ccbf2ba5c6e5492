package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medigrid/ambudispatch/internal/database/testutil"
)

func TestHealthReportsOK(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	c, recorder := newHandlerContext(t, http.MethodGet, "/health", nil, nil)
	Health(db)(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeResponse(t, recorder)
	require.True(t, payload.Success)
}
