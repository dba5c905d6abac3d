// Package mount builds the filesystem view a jailed process runs inside:
// a planned sequence of mount descriptors, finalized on insertion and
// realized by a constructor that assembles a private root, applies each
// descriptor, pivots into it, and re-mounts the read-only entries so the
// filesystem-intrinsic flags survive the remount.
package mount
