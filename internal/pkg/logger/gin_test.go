package logger

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAccess(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/post/action/comment", nil)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user_id", uint64(3))

	line := formatAccess(gin.LogFormatterParams{
		Request:    req.WithContext(ContextWithTrace(req.Context(), "t-1")),
		TimeStamp:  time.Unix(0, 0),
		StatusCode: 500,
		Latency:    time.Millisecond,
		Method:     "POST",
		Path:       "/api/post/action/comment",
		Keys:       c.Keys,
	}, "", "idx")

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, "t-1", got["trace_id"])
	assert.Equal(t, "ERROR", got["level"])
	assert.Equal(t, float64(3), got["user_id"])
	assert.Equal(t, "idx", got["target_index"])
	_, hasToken := got["log_token"]
	assert.False(t, hasToken)
}
