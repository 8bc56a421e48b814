package models

// Film is one row of the catalog search view.
type Film struct {
	FilmID      int    `json:"film_id"      gorm:"column:film_id"`
	Title       string `json:"title"        gorm:"column:title"`
	Description string `json:"description"  gorm:"column:description"`
	ReleaseYear int    `json:"release_year" gorm:"column:release_year"`
	Length      int    `json:"length"       gorm:"column:length"`
	Rating      string `json:"rating"       gorm:"column:rating"`
	Category    string `json:"category"     gorm:"column:category"`
	Actors      string `json:"actors"       gorm:"column:actors"`
}

// Range is an inclusive numeric interval reported by the catalog.
type Range struct {
	Min int `json:"min" gorm:"column:min_value"`
	Max int `json:"max" gorm:"column:max_value"`
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }
