package reconcile

import "github.com/HavvokLab/solix-setup/model"

// ExclusionSet is the expanded set of excluded categories and device types.
type ExclusionSet map[string]struct{}

func (s ExclusionSet) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

var (
	systemSubcategories = []string{
		model.CategorySitePrice,
		model.DeviceTypeSolarbank,
		model.DeviceTypeInverter,
		model.DeviceTypePPS,
		model.DeviceTypePowerPanel,
	}
	solarbankSubcategories = []string{
		model.CategorySolarbankEnergy,
		model.CategorySolarbankCutoff,
		model.CategorySolarbankFittings,
		model.CategorySolarbankSolarInfo,
	}
	managedDeviceSubcategories = []string{
		model.CategoryDeviceAutoUpgrade,
	}
	managedDeviceTypes = []string{
		model.DeviceTypeSolarbank,
		model.DeviceTypeInverter,
		model.DeviceTypePPS,
		model.DeviceTypePowerPanel,
	}
)

// ExpandExclusions adds the device types implied by excluded subcategories,
// so that excluding a subcategory also removes its parent device.
// Each rule is evaluated against the categories as given, not against types
// added by another rule.
func ExpandExclusions(excluded []string) ExclusionSet {
	set := make(ExclusionSet, len(excluded))
	for _, e := range excluded {
		set[e] = struct{}{}
	}

	given := make(ExclusionSet, len(set))
	for k := range set {
		given[k] = struct{}{}
	}

	if given.containsAny(systemSubcategories) {
		set[model.DeviceTypeSystem] = struct{}{}
	}
	if given.containsAny(solarbankSubcategories) {
		set[model.DeviceTypeSolarbank] = struct{}{}
	}
	if given.containsAny(managedDeviceSubcategories) {
		for _, t := range managedDeviceTypes {
			set[t] = struct{}{}
		}
	}

	return set
}

func (s ExclusionSet) containsAny(values []string) bool {
	for _, v := range values {
		if s.Contains(v) {
			return true
		}
	}
	return false
}
