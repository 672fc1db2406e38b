package format

// Resource is a named, reusable bundle of bells and periods that speech
// formats can include.  It is purely a template with no runtime
// behaviour of its own.
type Resource struct {
	ref     string
	bells   []*BellInfo
	periods map[string]*PeriodInfo
}

// NewResource builds an empty resource with the given reference string.
func NewResource(ref string) *Resource {
	return &Resource{
		ref:     ref,
		periods: make(map[string]*PeriodInfo),
	}
}

// Ref returns the resource's reference string.
func (r *Resource) Ref() string { return r.ref }

// AddBell appends a bell to the resource.
func (r *Resource) AddBell(bi *BellInfo) {
	r.bells = append(r.bells, bi)
}

// AddPeriod registers a period under the given reference.  Returns
// false if the reference is already taken.
func (r *Resource) AddPeriod(ref string, pi *PeriodInfo) bool {
	if _, exists := r.periods[ref]; exists {
		return false
	}
	r.periods[ref] = pi
	return true
}

// Period looks up a period by reference.
func (r *Resource) Period(ref string) (*PeriodInfo, bool) {
	pi, ok := r.periods[ref]
	return pi, ok
}

// Bells returns the resource's bells in registration order.
func (r *Resource) Bells() []*BellInfo { return r.bells }

// Periods returns the resource's period map.
func (r *Resource) Periods() map[string]*PeriodInfo { return r.periods }
