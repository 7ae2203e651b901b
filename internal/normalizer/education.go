package normalizer

// Tier is the ordered education level derived from the education set:
// none < certificate < associate < bachelor < masters < doctorate.
type Tier int

const (
	TierNone Tier = iota
	TierCertificate
	TierAssociate
	TierBachelor
	TierMasters
	TierDoctorate
)

var tierNames = map[Tier]string{
	TierNone:        "none",
	TierCertificate: "certificate",
	TierAssociate:   "associate",
	TierBachelor:    "bachelor",
	TierMasters:     "masters",
	TierDoctorate:   "doctorate",
}

func (t Tier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return "none"
}

var degreeTiers = map[string]Tier{
	"phd":         TierDoctorate,
	"doctorate":   TierDoctorate,
	"masters":     TierMasters,
	"ms":          TierMasters,
	"mba":         TierMasters,
	"bachelor":    TierBachelor,
	"bs":          TierBachelor,
	"ba":          TierBachelor,
	"associate":   TierAssociate,
	"diploma":     TierCertificate,
	"certificate": TierCertificate,
}

// HighestTier maps an extracted education set to its highest ordered tier.
func HighestTier(education []string) Tier {
	highest := TierNone
	for _, e := range education {
		if t, ok := degreeTiers[e]; ok && t > highest {
			highest = t
		}
	}
	return highest
}
