package pipeline

// Product types a fabrication order can be for.
const (
	ProductRim                = "rim"
	ProductSteeringWheel      = "steering_wheel"
	ProductStandardCaps       = "standard_caps"
	ProductFloaterCaps        = "floater_caps"
	ProductXXLCaps            = "xxl_caps"
	ProductDuallyFloatingCaps = "dually_floating_caps"
	ProductOffroadFloatingCaps = "offroad_floating_caps"
	ProductCustomCaps         = "custom_caps"
	ProductRaceCarCaps        = "race_car_caps"
)

// ProductCapsFilter is the pseudo-type accepted by product filters; it expands
// to the whole cap family.
const ProductCapsFilter = "caps"

// CapFamily is the single authoritative set of cap product subtypes. Every
// filter and validation rule that cares about "caps" goes through this set;
// it is never re-listed inline.
var CapFamily = map[string]bool{
	ProductStandardCaps:        true,
	ProductFloaterCaps:         true,
	ProductXXLCaps:             true,
	ProductDuallyFloatingCaps:  true,
	ProductOffroadFloatingCaps: true,
	ProductCustomCaps:          true,
	ProductRaceCarCaps:         true,
}

// ProductTypes lists every concrete product type.
var ProductTypes = []string{
	ProductRim,
	ProductSteeringWheel,
	ProductStandardCaps,
	ProductFloaterCaps,
	ProductXXLCaps,
	ProductDuallyFloatingCaps,
	ProductOffroadFloatingCaps,
	ProductCustomCaps,
	ProductRaceCarCaps,
}

// IsValidProductType reports whether t is a known concrete product type.
func IsValidProductType(t string) bool {
	for _, pt := range ProductTypes {
		if pt == t {
			return true
		}
	}
	return false
}

// SupportsCut reports whether cut status is meaningful for the product type.
// Cutting is a sub-operation that only applies to steering wheels and the cap
// family.
func SupportsCut(productType string) bool {
	return productType == ProductSteeringWheel || CapFamily[productType]
}

// Cut statuses.
const (
	CutStatusNotCut = "not_cut"
	CutStatusCut    = "cut"
)

// Lalo statuses form an unordered enumeration; any value may follow any other.
const (
	LaloNotSent         = "not_sent"
	LaloShippedToLalo   = "shipped_to_lalo"
	LaloAtLalo          = "at_lalo"
	LaloReturned        = "returned"
	LaloWaitingShipping = "waiting_shipping"
)

// LaloStatuses lists the valid lalo shipping sub-statuses.
var LaloStatuses = map[string]bool{
	LaloNotSent:         true,
	LaloShippedToLalo:   true,
	LaloAtLalo:          true,
	LaloReturned:        true,
	LaloWaitingShipping: true,
}

// Final statuses settable once an order reaches the terminal stage.
const (
	FinalStatusPickup  = "pickup"
	FinalStatusShipped = "shipped"
)
