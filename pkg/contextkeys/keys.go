package contextkeys

type contextKey string

const (
	// ActorKey holds the authenticated workflow.ActorContext for the request.
	ActorKey contextKey = "Actor"
)
