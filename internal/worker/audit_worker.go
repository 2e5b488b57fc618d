package worker

import (
	"github.com/Rodrymza/app-novedades/internal/service"
)

// StartAuditWorker registers the audit log handlers.
func StartAuditWorker(auditLog *service.AuditLogService) {
	if auditLog == nil {
		return
	}
	auditLog.RegisterHandlers()
}
