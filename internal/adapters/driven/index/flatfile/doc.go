// Package flatfile implements driven.ScopedIndex as one file pair per scope.
//
// For a scope keyed "course_12" the store keeps:
//
//	course_12.index     vectors, binary (see format.go)
//	course_12.meta.txt  one chunk id per line, in vector insertion order
//
// Line i of the mapping names the chunk whose vector is at position i of
// the index. Both files are rewritten in full on every append. Each write
// is atomic (temp file then rename); the mapping is committed first and
// the index second, so an interrupted append can only leave the mapping
// longer than the index. Loading detects that shape and fails with
// domain.ErrIndexCorrupt; Repair truncates the mapping back.
//
// Search is exact: squared Euclidean distance against every stored vector.
//
// All operations on one scope are serialised by a per-scope RWMutex.
// Writers from other processes are not coordinated.
package flatfile
