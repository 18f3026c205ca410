package logger

import (
	"IQNet/internal/api/config"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type accessLine struct {
	Time        string `json:"time"`
	Level       string `json:"level"`
	Msg         string `json:"msg"`
	TraceID     string `json:"trace_id"`
	LogToken    string `json:"log_token,omitempty"`
	TargetIndex string `json:"target_index,omitempty"`
	UserID      uint64 `json:"user_id,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Status      int    `json:"status"`
	Latency     string `json:"latency"`
	ClientIP    string `json:"client_ip"`
	Error       string `json:"error,omitempty"`
}

// SetupGin 访问日志按 JSON 行写入 LogWriter，并挂载 Recovery
func SetupGin(r *gin.Engine) {
	var token, index string
	if config.Cfg != nil {
		token, index = config.Cfg.Logstash.Token, config.Cfg.Logstash.Index
	}

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		SkipPaths: []string{"/metrics", "/api/ping"},
		Formatter: func(p gin.LogFormatterParams) string {
			return formatAccess(p, token, index)
		},
	}))

	r.Use(gin.Recovery())
}

func formatAccess(p gin.LogFormatterParams, token, index string) string {
	line := accessLine{
		Time:        p.TimeStamp.Format(time.RFC3339),
		Level:       "INFO",
		Msg:         "GIN_ACCESS",
		LogToken:    token,
		TargetIndex: index,
		Method:      p.Method,
		Path:        p.Path,
		Status:      p.StatusCode,
		Latency:     p.Latency.String(),
		ClientIP:    p.ClientIP,
		Error:       p.ErrorMessage,
	}
	if p.Keys != nil {
		line.TraceID, _ = p.Keys[TraceIDKey].(string)
		line.UserID, _ = p.Keys["user_id"].(uint64)
	}
	if line.TraceID == "" && p.Request != nil {
		line.TraceID = TraceFrom(p.Request.Context())
	}
	if p.StatusCode >= 500 {
		line.Level = "ERROR"
	}

	b, err := json.Marshal(line)
	if err != nil {
		return ""
	}
	return string(b) + "\n"
}
