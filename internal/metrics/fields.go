package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod   = "method"
	AttrPath     = "path"
	AttrStatus   = "status"
	AttrProvider = "provider"
	AttrCacheHit = "cache_hit"
	AttrSortKey  = "sort"
	AttrSource   = "source"
)
