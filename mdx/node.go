package mdx

import (
	"github.com/warcodec/mdlx"
)

// readNode reads a node, which is prefixed by its own size. The node's tracks
// are read from within that size, so a malformed size cannot run into the
// fields that follow.
func readNode(c *cursor, entity string) mdlx.Node {
	sc := c.record()
	if c.err != nil {
		return mdlx.Node{}
	}
	var n mdlx.Node
	n.Name = sc.str(nameSize)
	n.ObjectID = sc.i32()
	n.ParentID = sc.i32()
	n.Flags = mdlx.NodeFlags(sc.u32())
	sc.tracks(entity, func(t Tag) bool {
		switch t {
		case tagKGTR:
			n.Translation = readAnim[mdlx.Vec3](sc)
		case tagKGRT:
			n.Rotation = readAnim[mdlx.Vec4](sc)
		case tagKGSC:
			n.Scaling = readAnim[mdlx.Vec3](sc)
		default:
			return false
		}
		return true
	})
	c.fail(sc.Err())
	return n
}

func writeNode(w *writer, n *mdlx.Node) {
	w.record(func(w *writer) {
		w.str(n.Name, nameSize)
		w.i32(n.ObjectID)
		w.i32(n.ParentID)
		w.u32(uint32(n.Flags))
		writeAnim(w, tagKGTR, n.Translation)
		writeAnim(w, tagKGRT, n.Rotation)
		writeAnim(w, tagKGSC, n.Scaling)
	})
}
