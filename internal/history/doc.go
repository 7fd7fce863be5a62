// Package history persists a local journal of categorization passes so
// operators can review what past runs did without console access.
package history
