// Package memreplace implements an in-memory least-recently-used Buffer:
// the replacement-policy collaborator consumed by package buffered.
// Entries are evicted in LRU order, flushing dirty ones through their
// installed callback first; fixed (pinned) entries are never evicted.
package memreplace
