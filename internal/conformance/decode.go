package conformance

import (
	"github.com/holiman/uint256"

	"github.com/jamnode/jam/internal/codec"
	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/state"
	"github.com/jamnode/jam/internal/statekeys"
)

// FromDictionary decodes a Dictionary back into a state.State. Entries the
// dictionary omits decode as their zero value, so a genesis dictionary only
// needs to carry the components it wants to set.
func FromDictionary(d Dictionary) (*state.State, error) {
	s := &state.State{Services: make(map[state.ServiceID]*state.ServiceAccount)}

	if b, ok := d[statekeys.Simple(statekeys.ComponentTimeslot)]; ok {
		dec := codec.NewDecoder(b)
		v, err := dec.ReadUint32()
		if err != nil {
			return nil, err
		}
		s.Time = jam.Slot(v)
	}

	if b, ok := d[statekeys.Simple(statekeys.ComponentEntropy)]; ok {
		dec := codec.NewDecoder(b)
		for i := range s.Entropy {
			h, err := dec.ReadFixed(32)
			if err != nil {
				return nil, err
			}
			copy(s.Entropy[i][:], h)
		}
	}

	var err error
	if s.Validators.Active, err = decodeValidatorSet(d[statekeys.Simple(statekeys.ComponentValidatorsCurrent)]); err != nil {
		return nil, err
	}
	if s.Validators.Prior, err = decodeValidatorSet(d[statekeys.Simple(statekeys.ComponentValidatorsPrior)]); err != nil {
		return nil, err
	}
	if s.Validators.Next, err = decodeValidatorSet(d[statekeys.Simple(statekeys.ComponentValidatorsNext)]); err != nil {
		return nil, err
	}

	if b, ok := d[statekeys.Simple(statekeys.ComponentSafrole)]; ok {
		if s.Safrole, err = decodeSafrole(b); err != nil {
			return nil, err
		}
	}
	if b, ok := d[statekeys.Simple(statekeys.ComponentRecentHistory)]; ok {
		if s.RecentHistory, err = decodeHistory(b); err != nil {
			return nil, err
		}
	}
	if b, ok := d[statekeys.Simple(statekeys.ComponentAuthPools)]; ok {
		if s.AuthPools, err = decodeHashLists(b); err != nil {
			return nil, err
		}
	}
	if b, ok := d[statekeys.Simple(statekeys.ComponentAuthQueue)]; ok {
		if s.AuthQueues, err = decodeHashLists(b); err != nil {
			return nil, err
		}
	}
	if b, ok := d[statekeys.Simple(statekeys.ComponentDisputes)]; ok {
		if s.Disputes, err = decodeDisputes(b); err != nil {
			return nil, err
		}
	}
	if b, ok := d[statekeys.Simple(statekeys.ComponentPending)]; ok {
		if s.PendingReports, err = decodePendingReports(b); err != nil {
			return nil, err
		}
	}
	if b, ok := d[statekeys.Simple(statekeys.ComponentAccumulationWindow)]; ok {
		if s.Accumulated, err = decodeAccumulated(b); err != nil {
			return nil, err
		}
	}
	if b, ok := d[statekeys.Simple(statekeys.ComponentPrivileged)]; ok {
		if s.Priv, err = decodePrivileged(b); err != nil {
			return nil, err
		}
	}
	if b, ok := d[statekeys.Simple(statekeys.ComponentStats)]; ok {
		if s.Stats, err = decodeStats(b); err != nil {
			return nil, err
		}
	}

	for k, b := range d {
		id, ok := statekeys.ServiceIDFromBaseKey(k)
		if !ok {
			continue
		}
		svc, err := decodeServiceAccount(b)
		if err != nil {
			return nil, err
		}
		s.Services[id] = svc
	}

	return s, nil
}

func decodeValidatorSet(b []byte) ([]jam.ValidatorDescriptor, error) {
	if b == nil {
		return nil, nil
	}
	dec := codec.NewDecoder(b)
	n, err := dec.ReadCompactLength()
	if err != nil {
		return nil, err
	}
	out := make([]jam.ValidatorDescriptor, n)
	for i := range out {
		bn, err := dec.ReadFixed(32)
		if err != nil {
			return nil, err
		}
		copy(out[i].Bandersnatch[:], bn)
		ed, err := dec.ReadFixed(32)
		if err != nil {
			return nil, err
		}
		copy(out[i].Ed25519[:], ed)
		bls, err := dec.ReadFixed(48)
		if err != nil {
			return nil, err
		}
		copy(out[i].BLS[:], bls)
		meta, err := dec.ReadFixed(128)
		if err != nil {
			return nil, err
		}
		copy(out[i].Metadata[:], meta)
	}
	return out, nil
}

func decodeSafrole(b []byte) (state.Safrole, error) {
	dec := codec.NewDecoder(b)
	var sf state.Safrole

	n, err := dec.ReadCompactLength()
	if err != nil {
		return sf, err
	}
	sf.NextEpochKeys = make([]jam.BandersnatchKey, n)
	for i := range sf.NextEpochKeys {
		k, err := dec.ReadFixed(32)
		if err != nil {
			return sf, err
		}
		copy(sf.NextEpochKeys[i][:], k)
	}
	if sf.RingCommitment, err = dec.ReadBytes(); err != nil {
		return sf, err
	}
	variant, err := dec.ReadUint8()
	if err != nil {
		return sf, err
	}
	sf.Variant = state.SafroleVariant(variant)

	if n, err = dec.ReadCompactLength(); err != nil {
		return sf, err
	}
	sf.Tickets = make([]state.TicketBody, n)
	for i := range sf.Tickets {
		id, err := dec.ReadFixed(32)
		if err != nil {
			return sf, err
		}
		copy(sf.Tickets[i].ID[:], id)
		if sf.Tickets[i].Attempt, err = dec.ReadUint8(); err != nil {
			return sf, err
		}
	}

	if n, err = dec.ReadCompactLength(); err != nil {
		return sf, err
	}
	sf.FallbackKeys = make([]jam.BandersnatchKey, n)
	for i := range sf.FallbackKeys {
		k, err := dec.ReadFixed(32)
		if err != nil {
			return sf, err
		}
		copy(sf.FallbackKeys[i][:], k)
	}

	if n, err = dec.ReadCompactLength(); err != nil {
		return sf, err
	}
	sf.Accumulator = make([]state.TicketBody, n)
	for i := range sf.Accumulator {
		id, err := dec.ReadFixed(32)
		if err != nil {
			return sf, err
		}
		copy(sf.Accumulator[i].ID[:], id)
		if sf.Accumulator[i].Attempt, err = dec.ReadUint8(); err != nil {
			return sf, err
		}
	}
	return sf, nil
}

func decodeHistory(b []byte) ([]state.HistoryEntry, error) {
	dec := codec.NewDecoder(b)
	n, err := dec.ReadCompactLength()
	if err != nil {
		return nil, err
	}
	out := make([]state.HistoryEntry, n)
	for i := range out {
		hh, err := dec.ReadFixed(32)
		if err != nil {
			return nil, err
		}
		copy(out[i].HeaderHash[:], hh)
		sr, err := dec.ReadFixed(32)
		if err != nil {
			return nil, err
		}
		copy(out[i].StateRoot[:], sr)

		pn, err := dec.ReadCompactLength()
		if err != nil {
			return nil, err
		}
		out[i].MMRPeaks = make([]*jam.Hash, pn)
		for j := range out[i].MMRPeaks {
			present, err := dec.ReadUint8()
			if err != nil {
				return nil, err
			}
			if present == 0 {
				continue
			}
			h, err := dec.ReadFixed(32)
			if err != nil {
				return nil, err
			}
			var hash jam.Hash
			copy(hash[:], h)
			out[i].MMRPeaks[j] = &hash
		}

		rn, err := dec.ReadCompactLength()
		if err != nil {
			return nil, err
		}
		out[i].Reports = make([]state.WorkReportSummary, rn)
		for j := range out[i].Reports {
			wp, err := dec.ReadFixed(32)
			if err != nil {
				return nil, err
			}
			copy(out[i].Reports[j].WorkPackageHash[:], wp)
			rh, err := dec.ReadFixed(32)
			if err != nil {
				return nil, err
			}
			copy(out[i].Reports[j].ReportHash[:], rh)
			sg, err := dec.ReadFixed(32)
			if err != nil {
				return nil, err
			}
			copy(out[i].Reports[j].SegmentRoot[:], sg)
		}
	}
	return out, nil
}

func decodeHashLists(b []byte) ([][]jam.Hash, error) {
	dec := codec.NewDecoder(b)
	n, err := dec.ReadCompactLength()
	if err != nil {
		return nil, err
	}
	out := make([][]jam.Hash, n)
	for i := range out {
		ln, err := dec.ReadCompactLength()
		if err != nil {
			return nil, err
		}
		out[i] = make([]jam.Hash, ln)
		for j := range out[i] {
			h, err := dec.ReadFixed(32)
			if err != nil {
				return nil, err
			}
			copy(out[i][j][:], h)
		}
	}
	return out, nil
}

func decodeServiceAccount(b []byte) (*state.ServiceAccount, error) {
	dec := codec.NewDecoder(b)
	svc := &state.ServiceAccount{}

	h, err := dec.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(svc.CodeHash[:], h)

	bal, err := dec.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	svc.Balance = *new(uint256.Int).SetBytes(bal)

	minBal, err := dec.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	svc.MinBalance = *new(uint256.Int).SetBytes(minBal)

	if svc.ItemCount, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	footprint, err := dec.ReadUint64()
	if err != nil {
		return nil, err
	}
	svc.StorageFootprint = footprint
	lastAcc, err := dec.ReadUint32()
	if err != nil {
		return nil, err
	}
	svc.LastAccumulation = jam.Slot(lastAcc)

	sr, err := dec.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(svc.StorageRoot[:], sr)
	pr, err := dec.ReadFixed(32)
	if err != nil {
		return nil, err
	}
	copy(svc.PreimageRoot[:], pr)

	return svc, nil
}

func decodePendingReports(b []byte) ([]*state.PendingReport, error) {
	dec := codec.NewDecoder(b)
	n, err := dec.ReadCompactLength()
	if err != nil {
		return nil, err
	}
	out := make([]*state.PendingReport, n)
	for i := range out {
		present, err := dec.ReadUint8()
		if err != nil {
			return nil, err
		}
		if present == 0 {
			continue
		}
		p := &state.PendingReport{}
		wp, err := dec.ReadFixed(32)
		if err != nil {
			return nil, err
		}
		copy(p.Report.WorkPackageHash[:], wp)
		core, err := dec.ReadUint32()
		if err != nil {
			return nil, err
		}
		p.Report.Core = jam.CoreIndex(core)
		ah, err := dec.ReadFixed(32)
		if err != nil {
			return nil, err
		}
		copy(p.Report.AuthorizerHash[:], ah)

		dn, err := dec.ReadCompactLength()
		if err != nil {
			return nil, err
		}
		p.Report.Dependencies = make([]jam.Hash, dn)
		for j := range p.Report.Dependencies {
			h, err := dec.ReadFixed(32)
			if err != nil {
				return nil, err
			}
			copy(p.Report.Dependencies[j][:], h)
		}

		ln, err := dec.ReadCompactLength()
		if err != nil {
			return nil, err
		}
		p.Report.SegmentRootLooks = make([]jam.Hash, ln)
		for j := range p.Report.SegmentRootLooks {
			h, err := dec.ReadFixed(32)
			if err != nil {
				return nil, err
			}
			copy(p.Report.SegmentRootLooks[j][:], h)
		}

		reportSlot, err := dec.ReadUint32()
		if err != nil {
			return nil, err
		}
		p.Report.Slot = jam.Slot(reportSlot)
		pendingSlot, err := dec.ReadUint32()
		if err != nil {
			return nil, err
		}
		p.Slot = jam.Slot(pendingSlot)

		an, err := dec.ReadCompactLength()
		if err != nil {
			return nil, err
		}
		p.Availability = make([]bool, an)
		for j := range p.Availability {
			v, err := dec.ReadUint8()
			if err != nil {
				return nil, err
			}
			p.Availability[j] = v != 0
		}

		out[i] = p
	}
	return out, nil
}

func decodeAccumulated(b []byte) ([][]state.AccumulatedEntry, error) {
	dec := codec.NewDecoder(b)
	n, err := dec.ReadCompactLength()
	if err != nil {
		return nil, err
	}
	out := make([][]state.AccumulatedEntry, n)
	for i := range out {
		sn, err := dec.ReadCompactLength()
		if err != nil {
			return nil, err
		}
		out[i] = make([]state.AccumulatedEntry, sn)
		for j := range out[i] {
			rh, err := dec.ReadFixed(32)
			if err != nil {
				return nil, err
			}
			copy(out[i][j].ReportHash[:], rh)
			sg, err := dec.ReadFixed(32)
			if err != nil {
				return nil, err
			}
			copy(out[i][j].SegmentRoot[:], sg)
		}
	}
	return out, nil
}

func decodePrivileged(b []byte) (state.Privileged, error) {
	dec := codec.NewDecoder(b)
	var p state.Privileged

	manager, err := dec.ReadUint32()
	if err != nil {
		return p, err
	}
	p.Manager = state.ServiceID(manager)
	designate, err := dec.ReadUint32()
	if err != nil {
		return p, err
	}
	p.Designate = state.ServiceID(designate)
	registrar, err := dec.ReadUint32()
	if err != nil {
		return p, err
	}
	p.Registrar = state.ServiceID(registrar)

	n, err := dec.ReadCompactLength()
	if err != nil {
		return p, err
	}
	p.AssignPerCore = make([]state.ServiceID, n)
	for i := range p.AssignPerCore {
		id, err := dec.ReadUint32()
		if err != nil {
			return p, err
		}
		p.AssignPerCore[i] = state.ServiceID(id)
	}

	an, err := dec.ReadCompactLength()
	if err != nil {
		return p, err
	}
	p.AlwaysAccumulate = make(map[state.ServiceID]uint64, an)
	for i := 0; i < an; i++ {
		id, err := dec.ReadUint32()
		if err != nil {
			return p, err
		}
		gas, err := dec.ReadUint64()
		if err != nil {
			return p, err
		}
		p.AlwaysAccumulate[state.ServiceID(id)] = gas
	}
	return p, nil
}

func decodeStats(b []byte) (state.Stats, error) {
	dec := codec.NewDecoder(b)
	var st state.Stats

	n, err := dec.ReadCompactLength()
	if err != nil {
		return st, err
	}
	st.Validators = make([]state.ValidatorStats, n)
	for i := range st.Validators {
		ba, err := dec.ReadUint32()
		if err != nil {
			return st, err
		}
		st.Validators[i].BlocksAuthored = int(ba)
		tk, err := dec.ReadUint32()
		if err != nil {
			return st, err
		}
		st.Validators[i].Tickets = int(tk)
		pr, err := dec.ReadUint32()
		if err != nil {
			return st, err
		}
		st.Validators[i].Preimages = int(pr)
		rp, err := dec.ReadUint32()
		if err != nil {
			return st, err
		}
		st.Validators[i].Reports = int(rp)
		as, err := dec.ReadUint32()
		if err != nil {
			return st, err
		}
		st.Validators[i].Assurances = int(as)
	}

	sn, err := dec.ReadCompactLength()
	if err != nil {
		return st, err
	}
	st.ServiceData = make(map[state.ServiceID]state.ServiceStats, sn)
	for i := 0; i < sn; i++ {
		id, err := dec.ReadUint32()
		if err != nil {
			return st, err
		}
		var s state.ServiceStats
		imp, err := dec.ReadUint32()
		if err != nil {
			return st, err
		}
		s.Imports = int(imp)
		exp, err := dec.ReadUint32()
		if err != nil {
			return st, err
		}
		s.Exports = int(exp)
		if s.GasUsed, err = dec.ReadUint64(); err != nil {
			return st, err
		}
		pre, err := dec.ReadUint32()
		if err != nil {
			return st, err
		}
		s.Preimages = int(pre)
		st.ServiceData[state.ServiceID(id)] = s
	}
	return st, nil
}

func decodeDisputes(b []byte) (state.Disputes, error) {
	dec := codec.NewDecoder(b)
	var d state.Disputes
	readHashList := func() ([]jam.Hash, error) {
		n, err := dec.ReadCompactLength()
		if err != nil {
			return nil, err
		}
		out := make([]jam.Hash, n)
		for i := range out {
			h, err := dec.ReadFixed(32)
			if err != nil {
				return nil, err
			}
			copy(out[i][:], h)
		}
		return out, nil
	}
	var err error
	if d.Good, err = readHashList(); err != nil {
		return d, err
	}
	if d.Bad, err = readHashList(); err != nil {
		return d, err
	}
	if d.Wonky, err = readHashList(); err != nil {
		return d, err
	}
	n, err := dec.ReadCompactLength()
	if err != nil {
		return d, err
	}
	d.Punished = make([]jam.Ed25519Key, n)
	for i := range d.Punished {
		k, err := dec.ReadFixed(32)
		if err != nil {
			return d, err
		}
		copy(d.Punished[i][:], k)
	}
	return d, nil
}
