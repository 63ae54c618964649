package feature

import (
	"strings"

	"ggekpi/internal/table"
)

// Coarse sector buckets keyed by CRF code prefix. Labels keep the original
// reporting language.
const (
	SectorEnergy   = "Energia"
	SectorIndustry = "Processos Industriais"
	SectorAgri     = "Agricultura"
	SectorLULUCF   = "Uso do Solo e Florestas (LULUCF)"
	SectorWaste    = "Resíduos"
	SectorOthers   = "Outros"
	SectorMemo     = "Memo"
	SectorFallback = "Outro"
)

// sectorPrefixes is evaluated in order; some prefixes could overlap in
// future CRF code sets, so the priority is part of the contract.
var sectorPrefixes = []struct {
	prefix string
	sector string
}{
	{"CRF1", SectorEnergy},
	{"CRF2", SectorIndustry},
	{"CRF3", SectorAgri},
	{"CRF4", SectorLULUCF},
	{"CRF5", SectorWaste},
	{"CRF6", SectorOthers},
	{"TOTX", SectorMemo},
}

// MapSectorMain buckets a CRF source code by string prefix. Codes that match
// no known prefix, including empty codes from short composite keys, land in
// the generic fallback bucket.
func MapSectorMain(code string) string {
	for _, p := range sectorPrefixes {
		if strings.HasPrefix(code, p.prefix) {
			return p.sector
		}
	}
	return SectorFallback
}

// AddSectorMain fills SectorMain on every long emissions row from its CRF
// source code.
func AddSectorMain(rows []table.EmissionsLong) []table.EmissionsLong {
	out := make([]table.EmissionsLong, len(rows))
	for i, r := range rows {
		r.SectorMain = MapSectorMain(r.SrcCRF)
		out[i] = r
	}
	return out
}
