package domain

// Genre represents a category for classifying books.
// Genres are seeded with the schema and never edited through the API.
// Books reference genres; they never own them.
type Genre struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"` // Stable key: "science-fiction"
	Name string `json:"name"` // Name in the language the genre was loaded with
}

// GenreIDs returns the IDs of the given genres in order.
func GenreIDs(genres []*Genre) []int64 {
	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}
