// Package mirror pairs rig controls by side and slot and swaps their data.
//
// The Registry reads and writes three attributes on host nodes (mirrorSide,
// mirrorIndex, mirrorAxis) and groups a node collection into a MirrorSet.
// The Engine walks a MirrorSet, swapping each Left/Right pair through a
// scratch duplicate and negating the registered channels; Center nodes are
// negated in place.
//
// Data-completeness problems (a slot with no partner, a channel that will
// not invert) are logged and returned in a TransferReport rather than
// aborting the batch.
package mirror
