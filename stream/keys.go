package stream

import (
	"crypto/sha256"
	"encoding/binary"
	"sync/atomic"
)

// nextNodeID hands out process-wide unique node identities.
var nodeIDCounter atomic.Uint64

func nextNodeID() uint64 { return nodeIDCounter.Add(1) }

// ComputeRequestKey derives a deterministic fan-out key for a Cold branch,
// from the Cold's root node id and the branch's ordinal among that Cold's
// branches; Cold computes it once, when the branch opens, and every
// request on the branch carries it. It is grounded on the teacher's scheduler
// ComputeOrderKey: hash(parent_id, edge_index) gave a stable, collision
// resistant ordering key across replays; here the same construction gives
// a stable Keyed/Shared id so a Cold request and its eventual response can
// be correlated even when the response is delivered asynchronously and
// out of order relative to other branches' requests.
func ComputeRequestKey(nodeID uint64, seq uint64) uint64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], nodeID)
	binary.BigEndian.PutUint64(buf[8:16], seq)
	sum := sha256.Sum256(buf[:])
	return binary.BigEndian.Uint64(sum[:8])
}
