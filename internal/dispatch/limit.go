package dispatch

// RequestCeiling is the most categorization requests the console accepts in
// a single batch. Configured limits above it are clamped rather than
// rejected.
const RequestCeiling = 9999

// ClampLimit bounds a configured limit to RequestCeiling.
func ClampLimit(limit int) int {
	if limit > RequestCeiling {
		return RequestCeiling
	}
	return limit
}

// EffectiveLimit returns how many submissions a pass will plan: the smaller
// of the candidate count and the clamped limit.
func EffectiveLimit(candidates, limit int) int {
	limit = ClampLimit(limit)
	if candidates < limit {
		return candidates
	}
	return limit
}
