// Package astio reads and writes program trees as documents.
//
// The external parser hands trees over as JSON (.json) or msgpack (.rotree,
// .mp). A document is a list of items built from generic tagged Nodes; see
// Node for the slots each kind uses. Decode turns a document into an arena
// tree, Encode turns an arena tree (possibly rewritten by a pass) back into a
// document. Spans are byte offsets into the file named by Document.Source.
package astio
