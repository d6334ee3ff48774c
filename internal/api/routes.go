package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/icanhazticketbind"

	OAuthTokenRoute     = "/oauth2/token"
	FederatedLoginRoute = "/v1/login/federated"

	MetricsRoute = "/metrics"

	AdminParent        = "/v1/admin/"
	ListSessionsRoute  = AdminParent + "sessions"
	RevokeSessionRoute = AdminParent + "sessions/{id}"
	ListAuditsRoute    = AdminParent + "audits"

	TaskParent       = AdminParent + "tasks/"
	ListTasksRoute   = TaskParent
	TriggerTaskRoute = TaskParent + "{name}/trigger"
	LogsForTaskRoute = TaskParent + "{name}/logs"
)
