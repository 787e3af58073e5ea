package logger

import (
	"StreamHub/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"time"
)

const dialTimeout = 3 * time.Second

// LogWriter gin 访问日志输出，Logstash 可用时指向远程连接
var LogWriter io.Writer = os.Stdout

var remoteConn net.Conn

// InitLogger 初始化全局 slog，Logstash 不可达时降级为仅 stdout
func InitLogger(cfg config.LogstashConfig) {
	var remote io.Writer
	if cfg.Address != "" {
		conn, err := net.DialTimeout("tcp", cfg.Address, dialTimeout)
		if err == nil {
			remoteConn = conn
			remote = conn
			LogWriter = conn
		} else {
			log.Warn("Failed to connect to Logstash, logging to stdout only", "addr", cfg.Address, "err", err)
		}
	}

	log.SetDefault(log.New(NewHandler(os.Stdout, remote, cfg)))
}

// NewHandler stdout 全量输出，remote 只接收带 trace_id 的日志并附带索引与 token
func NewHandler(stdout, remote io.Writer, cfg config.LogstashConfig) log.Handler {
	opts := &log.HandlerOptions{Level: log.LevelInfo}
	var h log.Handler = log.NewJSONHandler(stdout, opts)

	if remote != nil {
		hRemote := log.NewJSONHandler(remote, opts).WithAttrs([]log.Attr{
			log.String("target_index", cfg.Index),
			log.String("log_token", cfg.Token),
		})
		h = NewTeeHandler(h, &RemoteFilterHandler{next: hRemote})
	}

	return &ContextHandler{h}
}

// Close 关闭 Logstash 连接
func Close() {
	if remoteConn != nil {
		_ = remoteConn.Close()
		remoteConn = nil
		LogWriter = os.Stdout
	}
}
