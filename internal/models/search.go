package models

// SearchFilters is a transient query. Breed, Size and Color are accepted for
// forward compatibility but are not evaluated by the listing filter.
type SearchFilters struct {
	Query        string `form:"q" json:"query"`
	Status       Status `form:"status" json:"status"`
	City         string `form:"city" json:"city"`
	Neighborhood string `form:"neighborhood" json:"neighborhood"`
	Breed        string `form:"breed" json:"breed,omitempty"`
	Size         string `form:"size" json:"size,omitempty"`
	Color        string `form:"color" json:"color,omitempty"`
}

// SetLocation fills city and neighborhood from the single location box, the
// way the home page search does. It does nothing when either field is
// already set.
func (f *SearchFilters) SetLocation(location string) {
	if location == "" || f.City != "" || f.Neighborhood != "" {
		return
	}
	f.City = location
	f.Neighborhood = location
}

// Empty reports whether no criteria are active.
func (f SearchFilters) Empty() bool {
	return f.Query == "" && f.Status == "" && f.City == "" && f.Neighborhood == ""
}
