// Package sites models cinema locations and the active site selection.
package sites

// AllSitesID is the synthetic site id representing "all sites"; requests
// scoped to it carry no siteid parameter upstream.
const AllSitesID = 0

// AllSitesName is the display name of the synthetic all-sites entry.
const AllSitesName = "Alle"

// Key is one out-of-band configuration entry attached to a site. Keys form
// an ordered association list, not a map: duplicate names may exist and
// lookups take the first match.
type Key struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Site is a physical cinema location, the unit of scoping for most reports.
type Site struct {
	SiteID  int    `json:"siteId"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Keys    []Key  `json:"keys,omitempty"`
}

// Key returns the value of the first key with the given name.
func (s Site) Key(name string) (string, bool) {
	for _, k := range s.Keys {
		if k.Name == name {
			return k.Value, true
		}
	}
	return "", false
}

// AllSites returns the synthetic entry prepended to an admin's site list.
func AllSites() Site {
	return Site{SiteID: AllSitesID, Name: AllSitesName}
}

// Selection is the persisted site selection state.
type Selection struct {
	SelectedSiteID   *int   `json:"selectedSiteId"`
	SelectedSiteName string `json:"selectedSiteName"`
	WordpressID      string `json:"wordpressId"`
	WordpressURL     string `json:"wordpressUrl"`
	Sites            []Site `json:"sites"`
	IsAdmin          bool   `json:"isAdmin"`
}

// Contains reports whether the list includes a site with the given id.
func Contains(list []Site, siteID int) bool {
	for _, s := range list {
		if s.SiteID == siteID {
			return true
		}
	}
	return false
}
