package main

const (
	osmAttribution   = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	cartoAttribution = osmAttribution + ` &copy; <a href="https://carto.com/attributions">CARTO</a>`
	cartoSubdomains  = "abcd"
)

// TileStyle selects the base layer of the overlay map.
type TileStyle int

const (
	StyleDefault TileStyle = iota
	StyleCartoPositron
	StyleCartoPositronNoLabels
	StyleCartoDarkMatter
	StyleCartoDarkMatterNoLabels
)

var tileStyles = []TileStyle{
	StyleDefault,
	StyleCartoPositron,
	StyleCartoPositronNoLabels,
	StyleCartoDarkMatter,
	StyleCartoDarkMatterNoLabels,
}

// TileLayer is the configuration handed to the map document.
type TileLayer struct {
	Name        string
	URL         string
	Attribution string
	Subdomains  string
}

func (s TileStyle) String() string {
	switch s {
	case StyleCartoPositron:
		return "cartodb_positron"
	case StyleCartoPositronNoLabels:
		return "cartodb_positron_nolabels"
	case StyleCartoDarkMatter:
		return "cartodb_darkmatter"
	case StyleCartoDarkMatterNoLabels:
		return "cartodb_darkmatter_nolabels"
	default:
		return "default"
	}
}

func (s TileStyle) Layer() TileLayer {
	switch s {
	case StyleCartoPositron:
		return cartoLayer("CartoDB Positron", "light_all")
	case StyleCartoPositronNoLabels:
		return cartoLayer("CartoDB Positron No Labels", "light_nolabels")
	case StyleCartoDarkMatter:
		return cartoLayer("CartoDB Dark Matter", "dark_all")
	case StyleCartoDarkMatterNoLabels:
		return cartoLayer("CartoDB Dark Matter No Labels", "dark_nolabels")
	default:
		return TileLayer{
			Name:        "OpenStreetMap",
			URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: osmAttribution,
		}
	}
}

func cartoLayer(name, variant string) TileLayer {
	return TileLayer{
		Name:        name,
		URL:         "https://{s}.basemaps.cartocdn.com/" + variant + "/{z}/{x}/{y}{r}.png",
		Attribution: cartoAttribution,
		Subdomains:  cartoSubdomains,
	}
}

// parseTileStyle resolves a selector. Unknown selectors fall back to
// StyleDefault with ok set to false.
func parseTileStyle(selector string) (style TileStyle, ok bool) {
	for _, s := range tileStyles {
		if s.String() == selector {
			return s, true
		}
	}
	return StyleDefault, false
}
