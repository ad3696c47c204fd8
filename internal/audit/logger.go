package audit

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
)

// Stream names, used by the optional archive and the admin log query.
const (
	StreamApplication = "application"
	StreamActivity    = "activity"
)

// ist is the fixed offset used for activity-stream timestamps.
var ist = time.FixedZone("IST", 5*3600+30*60)

// Logger builds structured audit entries and appends them as JSON lines to
// one of two append-only streams: http_request events go to the application
// stream, everything else to the activity stream. LogEvent is best-effort
// throughout; it never fails the caller.
type Logger struct {
	applicationPath string
	activityPath    string

	notifier *Notifier
	archive  repository.AuditArchive

	now func() time.Time
}

// NewLogger creates a logger writing to application.log and activity.log
// under logsDir. notifier and archive may be nil.
func NewLogger(logsDir string, notifier *Notifier, archive repository.AuditArchive) *Logger {
	return &Logger{
		applicationPath: filepath.Join(logsDir, "application.log"),
		activityPath:    filepath.Join(logsDir, "activity.log"),
		notifier:        notifier,
		archive:         archive,
		now:             time.Now,
	}
}

// ActivityPath returns the activity stream file path. The notifier writes its
// durable fallback entries there.
func (l *Logger) ActivityPath() string {
	return l.activityPath
}

// LogEvent records one notable action. remoteAddr is the client address in
// host:port or bare-host form; anything else leaves the IP absent. The
// explicit username wins; otherwise it is resolved from detail's username,
// user or buyer keys, in that order, and the field is omitted when empty.
func (l *Logger) LogEvent(action string, detail map[string]any, remoteAddr, username string) {
	if detail == nil {
		detail = map[string]any{}
	}

	entry := model.LogEntry{
		TS:       l.now().In(ist).Format(time.RFC3339Nano),
		Action:   action,
		IP:       clientIP(remoteAddr),
		Detail:   detail,
		Username: resolveUsername(username, detail),
	}

	raw, err := json.Marshal(entry)
	if err == nil {
		target := l.activityPath
		if action == "http_request" {
			target = l.applicationPath
		}
		_ = appendLine(target, raw)

		if l.archive != nil {
			stream := StreamActivity
			if action == "http_request" {
				stream = StreamApplication
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_ = l.archive.Insert(ctx, stream, entry, raw)
			cancel()
		}
	}

	// Escalation is decided even when persisting the entry failed.
	if shouldAlert(action) && l.notifier != nil {
		actor := "unknown"
		if s, ok := detail["username"].(string); ok && s != "" {
			actor = s
		} else if entry.Username != "" {
			actor = entry.Username
		}

		l.notifier.Enqueue(model.EscalationPayload{
			ShortDescription: action + " - " + actor,
			Description:      string(raw),
		})
	}
}

// shouldAlert reports whether an action warrants forwarding to the external
// ticketing sink.
func shouldAlert(action string) bool {
	return strings.HasSuffix(action, "_failed") || action == "test_snow"
}

// resolveUsername applies the precedence explicit > detail.username >
// detail.user > detail.buyer. Empty means unresolved.
func resolveUsername(explicit string, detail map[string]any) string {
	if explicit != "" {
		return explicit
	}
	for _, key := range []string{"username", "user", "buyer"} {
		if s, ok := detail[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// clientIP extracts the host from a host:port or bare-host remote address.
func clientIP(remoteAddr string) *string {
	if remoteAddr == "" {
		return nil
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	if host == "" {
		return nil
	}
	return &host
}

// appendLine appends one JSON line to an append-only stream. Each line write
// is a single independent append; callers treat failures as best-effort.
func appendLine(path string, raw []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(raw, '\n'))
	return err
}
