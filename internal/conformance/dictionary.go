// Package conformance exposes the node's only externally observable
// operation (spec.md §6): given a base state key→value dictionary and a
// block, return the successor dictionary and its Merkle root, or an
// error. The Unix-socket framing around that operation is out of scope
// for this package; callers are expected to treat wire messages as
// opaque envelopes and hand this package only the decoded payload.
package conformance

import (
	"sort"

	"github.com/jamnode/jam/internal/codec"
	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/state"
	"github.com/jamnode/jam/internal/statekeys"
	"github.com/jamnode/jam/internal/trie"
)

// Dictionary is the flat key→value state representation the merklization
// trie is built from.
type Dictionary map[trie.Key][]byte

// ToDictionary encodes every top-level σ component into its own 31-byte
// keyed entry (spec.md §4.8, §6). Per-service storage/preimage subtrees
// are not expanded here: callers needing those encode them individually
// via statekeys.Storage/Preimage alongside a service's base entry.
func ToDictionary(s *state.State) Dictionary {
	d := make(Dictionary)

	e := codec.NewEncoder()
	e.WriteUint32(uint32(s.Time))
	d[statekeys.Simple(statekeys.ComponentTimeslot)] = e.Bytes()

	e = codec.NewEncoder()
	for _, h := range s.Entropy {
		e.WriteFixed(h[:])
	}
	d[statekeys.Simple(statekeys.ComponentEntropy)] = e.Bytes()

	d[statekeys.Simple(statekeys.ComponentValidatorsCurrent)] = encodeValidatorSet(s.Validators.Active)
	d[statekeys.Simple(statekeys.ComponentValidatorsPrior)] = encodeValidatorSet(s.Validators.Prior)
	d[statekeys.Simple(statekeys.ComponentValidatorsNext)] = encodeValidatorSet(s.Validators.Next)

	d[statekeys.Simple(statekeys.ComponentSafrole)] = encodeSafrole(s.Safrole)
	d[statekeys.Simple(statekeys.ComponentRecentHistory)] = encodeHistory(s.RecentHistory)
	d[statekeys.Simple(statekeys.ComponentAuthPools)] = encodeHashLists(s.AuthPools)
	d[statekeys.Simple(statekeys.ComponentAuthQueue)] = encodeHashLists(s.AuthQueues)
	d[statekeys.Simple(statekeys.ComponentDisputes)] = encodeDisputes(s.Disputes)
	d[statekeys.Simple(statekeys.ComponentPending)] = encodePendingReports(s.PendingReports)
	d[statekeys.Simple(statekeys.ComponentAccumulationWindow)] = encodeAccumulated(s.Accumulated)
	d[statekeys.Simple(statekeys.ComponentPrivileged)] = encodePrivileged(s.Priv)
	d[statekeys.Simple(statekeys.ComponentStats)] = encodeStats(s.Stats)

	for id, svc := range s.Services {
		d[statekeys.ServiceBase(id)] = encodeServiceAccount(svc)
	}

	return d
}

// Root computes the state root of a dictionary by loading it into a bit-
// partitioned trie and hashing it (spec.md §4.8).
func Root(d Dictionary) jam.Hash {
	t := trie.New()
	for k, v := range d {
		t.Put(k, v)
	}
	return t.Root()
}

func encodeValidatorSet(vs []jam.ValidatorDescriptor) []byte {
	e := codec.NewEncoder()
	e.WriteCompactLength(len(vs))
	for _, v := range vs {
		e.WriteFixed(v.Bandersnatch[:])
		e.WriteFixed(v.Ed25519[:])
		e.WriteFixed(v.BLS[:])
		e.WriteFixed(v.Metadata[:])
	}
	return e.Bytes()
}

func encodeSafrole(sf state.Safrole) []byte {
	e := codec.NewEncoder()
	e.WriteCompactLength(len(sf.NextEpochKeys))
	for _, k := range sf.NextEpochKeys {
		e.WriteFixed(k[:])
	}
	e.WriteBytes(sf.RingCommitment)
	e.WriteUint8(uint8(sf.Variant))

	e.WriteCompactLength(len(sf.Tickets))
	for _, t := range sf.Tickets {
		e.WriteFixed(t.ID[:])
		e.WriteUint8(t.Attempt)
	}
	e.WriteCompactLength(len(sf.FallbackKeys))
	for _, k := range sf.FallbackKeys {
		e.WriteFixed(k[:])
	}
	e.WriteCompactLength(len(sf.Accumulator))
	for _, t := range sf.Accumulator {
		e.WriteFixed(t.ID[:])
		e.WriteUint8(t.Attempt)
	}
	return e.Bytes()
}

func encodeHistory(history []state.HistoryEntry) []byte {
	e := codec.NewEncoder()
	e.WriteCompactLength(len(history))
	for _, h := range history {
		e.WriteFixed(h.HeaderHash[:])
		e.WriteFixed(h.StateRoot[:])
		e.WriteCompactLength(len(h.MMRPeaks))
		for _, p := range h.MMRPeaks {
			if p == nil {
				e.WriteUint8(0)
				continue
			}
			e.WriteUint8(1)
			e.WriteFixed(p[:])
		}
		e.WriteCompactLength(len(h.Reports))
		for _, r := range h.Reports {
			e.WriteFixed(r.WorkPackageHash[:])
			e.WriteFixed(r.ReportHash[:])
			e.WriteFixed(r.SegmentRoot[:])
		}
	}
	return e.Bytes()
}

func encodePendingReports(pending []*state.PendingReport) []byte {
	e := codec.NewEncoder()
	e.WriteCompactLength(len(pending))
	for _, p := range pending {
		if p == nil {
			e.WriteUint8(0)
			continue
		}
		e.WriteUint8(1)
		e.WriteFixed(p.Report.WorkPackageHash[:])
		e.WriteUint32(uint32(p.Report.Core))
		e.WriteFixed(p.Report.AuthorizerHash[:])
		e.WriteCompactLength(len(p.Report.Dependencies))
		for _, d := range p.Report.Dependencies {
			e.WriteFixed(d[:])
		}
		e.WriteCompactLength(len(p.Report.SegmentRootLooks))
		for _, l := range p.Report.SegmentRootLooks {
			e.WriteFixed(l[:])
		}
		e.WriteUint32(uint32(p.Report.Slot))
		e.WriteUint32(uint32(p.Slot))
		e.WriteCompactLength(len(p.Availability))
		for _, a := range p.Availability {
			if a {
				e.WriteUint8(1)
			} else {
				e.WriteUint8(0)
			}
		}
	}
	return e.Bytes()
}

func encodeAccumulated(window [][]state.AccumulatedEntry) []byte {
	e := codec.NewEncoder()
	e.WriteCompactLength(len(window))
	for _, slot := range window {
		e.WriteCompactLength(len(slot))
		for _, entry := range slot {
			e.WriteFixed(entry.ReportHash[:])
			e.WriteFixed(entry.SegmentRoot[:])
		}
	}
	return e.Bytes()
}

func encodePrivileged(p state.Privileged) []byte {
	e := codec.NewEncoder()
	e.WriteUint32(uint32(p.Manager))
	e.WriteUint32(uint32(p.Designate))
	e.WriteUint32(uint32(p.Registrar))
	e.WriteCompactLength(len(p.AssignPerCore))
	for _, id := range p.AssignPerCore {
		e.WriteUint32(uint32(id))
	}
	e.WriteCompactLength(len(p.AlwaysAccumulate))
	ids := make([]state.ServiceID, 0, len(p.AlwaysAccumulate))
	for id := range p.AlwaysAccumulate {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		e.WriteUint32(uint32(id))
		e.WriteUint64(p.AlwaysAccumulate[id])
	}
	return e.Bytes()
}

func encodeStats(st state.Stats) []byte {
	e := codec.NewEncoder()
	e.WriteCompactLength(len(st.Validators))
	for _, v := range st.Validators {
		e.WriteUint32(uint32(v.BlocksAuthored))
		e.WriteUint32(uint32(v.Tickets))
		e.WriteUint32(uint32(v.Preimages))
		e.WriteUint32(uint32(v.Reports))
		e.WriteUint32(uint32(v.Assurances))
	}
	e.WriteCompactLength(len(st.ServiceData))
	ids := make([]state.ServiceID, 0, len(st.ServiceData))
	for id := range st.ServiceData {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s := st.ServiceData[id]
		e.WriteUint32(uint32(id))
		e.WriteUint32(uint32(s.Imports))
		e.WriteUint32(uint32(s.Exports))
		e.WriteUint64(s.GasUsed)
		e.WriteUint32(uint32(s.Preimages))
	}
	return e.Bytes()
}

func encodeHashLists(lists [][]jam.Hash) []byte {
	e := codec.NewEncoder()
	e.WriteCompactLength(len(lists))
	for _, l := range lists {
		e.WriteCompactLength(len(l))
		for _, h := range l {
			e.WriteFixed(h[:])
		}
	}
	return e.Bytes()
}

func encodeDisputes(d state.Disputes) []byte {
	e := codec.NewEncoder()
	writeHashList := func(hs []jam.Hash) {
		e.WriteCompactLength(len(hs))
		for _, h := range hs {
			e.WriteFixed(h[:])
		}
	}
	writeHashList(d.Good)
	writeHashList(d.Bad)
	writeHashList(d.Wonky)
	e.WriteCompactLength(len(d.Punished))
	for _, k := range d.Punished {
		e.WriteFixed(k[:])
	}
	return e.Bytes()
}

func encodeServiceAccount(svc *state.ServiceAccount) []byte {
	e := codec.NewEncoder()
	e.WriteFixed(svc.CodeHash[:])
	balance := svc.Balance.Bytes32()
	e.WriteFixed(balance[:])
	minBalance := svc.MinBalance.Bytes32()
	e.WriteFixed(minBalance[:])
	e.WriteUint32(svc.ItemCount)
	e.WriteUint64(svc.StorageFootprint)
	e.WriteUint32(uint32(svc.LastAccumulation))
	e.WriteFixed(svc.StorageRoot[:])
	e.WriteFixed(svc.PreimageRoot[:])
	return e.Bytes()
}
