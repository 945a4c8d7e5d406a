package model

// Category identifies the application or subsystem that owns a candidate
// cache path.
type Category string

const (
	CategoryUnity  Category = "unity"
	CategoryUnreal Category = "unreal"
	CategoryChrome Category = "chrome"
	CategorySystem Category = "system"
	CategoryOther  Category = "other"
)

// Categories lists every known category.
func Categories() []Category {
	return []Category{CategoryUnity, CategoryUnreal, CategoryChrome, CategorySystem, CategoryOther}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryUnity, CategoryUnreal, CategoryChrome, CategorySystem, CategoryOther:
		return true
	}
	return false
}

// CandidatePath is a filesystem location proposed for deletion by a
// discovery collaborator. It has not been validated yet; every candidate
// goes through the full gate sequence before anything touches the disk.
type CandidatePath struct {
	Path          string   `json:"path"`
	Category      Category `json:"category"`
	EstimatedSize int64    `json:"estimated_size"`
	DiscoveredBy  string   `json:"discovered_by,omitempty"`
}
