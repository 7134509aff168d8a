package gallery

import (
	"log"
	"strings"
)

type Category string

const (
	Scenery       Category = "scenery"
	Wildlife      Category = "wildlife"
	Culture       Category = "culture"
	Food          Category = "food"
	Beach         Category = "beach"
	Accommodation Category = "accommodation"
)

// Categories in display order.
var Categories = []Category{Scenery, Wildlife, Culture, Food, Beach, Accommodation}

// DefaultCategory is what anything unrecognised becomes.
const DefaultCategory = Scenery

var categorySynonyms = map[string]Category{
	"scenery":    Scenery,
	"scenic":     Scenery,
	"landscape":  Scenery,
	"landscapes": Scenery,
	"nature":     Scenery,
	"mountain":   Scenery,
	"mountains":  Scenery,
	"waterfall":  Scenery,
	"waterfalls": Scenery,
	"hills":      Scenery,
	"tea":        Scenery,

	"wildlife":  Wildlife,
	"wild":      Wildlife,
	"animal":    Wildlife,
	"animals":   Wildlife,
	"safari":    Wildlife,
	"birds":     Wildlife,
	"elephant":  Wildlife,
	"elephants": Wildlife,

	"culture":     Culture,
	"cultural":    Culture,
	"traditional": Culture,
	"tradition":   Culture,
	"heritage":    Culture,
	"history":     Culture,
	"historical":  Culture,
	"temple":      Culture,
	"temples":     Culture,
	"festival":    Culture,
	"festivals":   Culture,

	"food":       Food,
	"foods":      Food,
	"cuisine":    Food,
	"dining":     Food,
	"restaurant": Food,
	"drinks":     Food,

	"beach":   Beach,
	"beaches": Beach,
	"sea":     Beach,
	"ocean":   Beach,
	"coast":   Beach,
	"coastal": Beach,
	"surf":    Beach,

	"accommodation":  Accommodation,
	"accommodations": Accommodation,
	"hotel":          Accommodation,
	"hotels":         Accommodation,
	"resort":         Accommodation,
	"resorts":        Accommodation,
	"villa":          Accommodation,
	"stay":           Accommodation,
	"lodging":        Accommodation,
}

// NormalizeCategory maps free text onto the fixed vocabulary. It never fails:
// unmatched input falls back to scenery. Non-empty misses are logged so a
// genuinely new category does not vanish silently.
func NormalizeCategory(s string) Category {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := categorySynonyms[key]; ok {
		return c
	}
	if key != "" {
		log.Printf("[gallery] Unknown category %q, using %s\n", s, DefaultCategory)
	}
	return DefaultCategory
}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}
