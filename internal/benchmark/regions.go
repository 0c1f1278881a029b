package benchmark

// Brazilian macro-region names keyed the way the dataset spells its states.
const (
	RegionSoutheast   = "Southeast"
	RegionSouth       = "South"
	RegionNortheast   = "Northeast"
	RegionCentralWest = "Central-West"
	RegionNorth       = "North"
)

var stateRegion = map[string]string{
	"SP": RegionSoutheast, "RJ": RegionSoutheast, "MG": RegionSoutheast, "ES": RegionSoutheast,
	"RS": RegionSouth, "PR": RegionSouth, "SC": RegionSouth,
	"BA": RegionNortheast, "PE": RegionNortheast, "CE": RegionNortheast, "MA": RegionNortheast,
	"PB": RegionNortheast, "RN": RegionNortheast, "AL": RegionNortheast, "PI": RegionNortheast,
	"SE": RegionNortheast,
	"DF": RegionCentralWest, "GO": RegionCentralWest, "MT": RegionCentralWest, "MS": RegionCentralWest,
	"PA": RegionNorth, "AM": RegionNorth, "TO": RegionNorth, "RO": RegionNorth,
	"AC": RegionNorth, "AP": RegionNorth, "RR": RegionNorth,
}

// RegionForState maps a two-letter state code to its macro region.
// Unknown states return "" and false.
func RegionForState(state string) (string, bool) {
	r, ok := stateRegion[state]
	return r, ok
}

// Rainy season months per region. The marketplace-wide default is the
// Oct-Mar wet season covering the populous south and southeast; the
// equatorial north peaks Dec-May instead.
var regionRainyMonths = map[string]map[int]bool{
	RegionNorth:     monthSet(12, 1, 2, 3, 4, 5),
	RegionNortheast: monthSet(3, 4, 5, 6, 7),
}

var defaultRainyMonths = monthSet(10, 11, 12, 1, 2, 3)

func monthSet(months ...int) map[int]bool {
	s := make(map[int]bool, len(months))
	for _, m := range months {
		s[m] = true
	}
	return s
}

// IsRainyMonth reports whether the month falls in the rainy season for the
// given state. States without a region mapping use the platform default.
func IsRainyMonth(state string, month int) bool {
	if region, ok := stateRegion[state]; ok {
		if set, ok := regionRainyMonths[region]; ok {
			return set[month]
		}
	}
	return defaultRainyMonths[month]
}

// Platform logistics baselines observed across all delivered orders.
const (
	PlatformAvgDistanceKM = 592.4
	PlatformAvgFreight    = 19.99
	PlatformAvgDays       = 12.5
)

// Freight and delivery-time linear fits against seller-customer distance,
// estimated over delivered orders with known coordinates.
const (
	FreightPerKM    = 0.0104
	FreightBase     = 13.70
	DeliveryPerKM   = 0.00606
	DeliveryBaseDay = 8.64
)
