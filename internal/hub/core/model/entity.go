package model

// Collection names the four addressable entity collections.
type Collection string

const (
	CollectionAreas      Collection = "areas"
	CollectionComponents Collection = "components"
	CollectionApps       Collection = "apps"
	CollectionFunctions  Collection = "functions"
)

// Known reports whether c is one of the four addressable collections.
// Unknown collections are not an error at the listing level; they produce an
// empty listing.
func (c Collection) Known() bool {
	switch c {
	case CollectionAreas, CollectionComponents, CollectionApps, CollectionFunctions:
		return true
	}
	return false
}

// DataCategory names one of the structured key/value buckets attached to an
// entity. The declaration order below is also the resolution priority:
// static identity data shadows live data, which shadows system info.
type DataCategory string

const (
	CategoryIdent   DataCategory = "identData"
	CategoryCurrent DataCategory = "currentData"
	CategorySysInfo DataCategory = "sysInfo"
)

// CategoryPriority is the fixed search order for data resolution.
var CategoryPriority = []DataCategory{CategoryIdent, CategoryCurrent, CategorySysInfo}

// DataSet holds the structured data categories of one entity. Ident and
// SysInfo are static after load; Current is the volatile bucket fed by the
// ingest plane.
type DataSet struct {
	Ident   map[string]Value
	Current map[string]Value
	SysInfo map[string]Value
}

// Category returns the map backing one category. A nil map means the entity
// declares no data in that category.
func (d DataSet) Category(c DataCategory) map[string]Value {
	switch c {
	case CategoryIdent:
		return d.Ident
	case CategoryCurrent:
		return d.Current
	case CategorySysInfo:
		return d.SysInfo
	}
	return nil
}

// Clone deep-copies the data set so readers never share map storage with the
// store's mutable state.
func (d DataSet) Clone() DataSet {
	return DataSet{
		Ident:   cloneValues(d.Ident),
		Current: cloneValues(d.Current),
		SysInfo: cloneValues(d.SysInfo),
	}
}

func cloneValues(m map[string]Value) map[string]Value {
	if m == nil {
		return nil
	}
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Area is a logical or physical vehicle zone grouping components. Areas own
// the membership link: MemberComponentIDs may overlap between areas, and a
// component never carries a single owning area.
type Area struct {
	ID                 string
	Name               string
	MemberComponentIDs []string
}

// Component is an ECU, the unit of identity, diagnostic and bulk-data
// addressing. AreaIDs are back-references derived from area membership at
// load time.
type Component struct {
	ID           string
	Name         string
	Architecture string
	AreaIDs      []string

	Data           DataSet
	BulkCategories []string
	Faults         []Fault
}

// Clone deep-copies the component, detaching the mutable Data and Faults
// from the store's state.
func (c Component) Clone() Component {
	out := c
	out.AreaIDs = append([]string(nil), c.AreaIDs...)
	out.Data = c.Data.Clone()
	out.BulkCategories = append([]string(nil), c.BulkCategories...)
	out.Faults = append([]Fault(nil), c.Faults...)
	return out
}

// App is a software unit hosted on exactly one component. It inherits its
// host's architecture for bulk-data layout purposes.
type App struct {
	ID              string
	Name            string
	HostComponentID string

	Data           DataSet
	BulkCategories []string
	Faults         []Fault
}

// Clone deep-copies the app, detaching the mutable Data and Faults from the
// store's state.
func (a App) Clone() App {
	out := a
	out.Data = a.Data.Clone()
	out.BulkCategories = append([]string(nil), a.BulkCategories...)
	out.Faults = append([]Fault(nil), a.Faults...)
	return out
}

// Function is a cross-component capability spanning at least one component.
type Function struct {
	ID                      string
	Name                    string
	ParticipantComponentIDs []string
}
