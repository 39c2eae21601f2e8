package shape

import (
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a content hash of the tree rooted at n. Two trees
// with the same structure, geometry, colours and placements have the same
// fingerprint, whether or not their leaves are shared. Orientations are
// hashed as quaternions, so q and -q hash differently.
func Fingerprint(n Node) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only a key longer than 64 bytes makes New256 fail.
		panic(err)
	}
	writeNode(h, n, make(map[Node]bool))
	return hex.EncodeToString(h.Sum(nil))
}

func writeNode(h hash.Hash, n Node, onPath map[Node]bool) {
	if onPath[n] {
		writeTag(h, 'C')
		return
	}
	switch v := n.(type) {
	case *Shape:
		writeTag(h, 'S')
		writeInt(h, len(v.Vertices))
		for _, p := range v.Vertices {
			writeFloat(h, p[0], p[1], p[2])
		}
		writeInt(h, len(v.Faces))
		for _, f := range v.Faces {
			writeInt(h, len(f))
			for _, idx := range f {
				writeInt(h, idx)
			}
		}
		writeInt(h, len(v.Colors))
		for _, c := range v.Colors {
			h.Write([]byte{c.R, c.G, c.B, c.A})
		}
	case *MultiShape:
		onPath[n] = true
		writeTag(h, 'M')
		writeInt(h, v.Len())
		for _, e := range v.Entries() {
			writeFloat(h, e.Position[0], e.Position[1], e.Position[2])
			q := e.Orientation.Quat()
			writeFloat(h, q.W, q.V[0], q.V[1], q.V[2])
			writeNode(h, e.Child, onPath)
		}
		delete(onPath, n)
	default:
		writeTag(h, 'N')
	}
}

func writeTag(h hash.Hash, tag byte) {
	h.Write([]byte{tag})
}

func writeInt(h hash.Hash, v int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	h.Write(buf[:])
}

func writeFloat(h hash.Hash, vs ...float64) {
	var buf [8]byte
	for _, v := range vs {
		if v == 0 {
			v = 0 // fold -0 into +0
		}
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
}
