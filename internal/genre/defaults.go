// Package genre holds the built-in genre taxonomy and its translations.
package genre

// Languages with built-in genre names. English is the fallback.
var Languages = []string{"en", "ru", "de", "es"}

// Seed defines a genre and its display names keyed by language.
type Seed struct {
	Slug  string
	Names map[string]string
}

// Defaults is the genre list seeded into a fresh database.
// Order matters: genre IDs are assigned in this order on first start,
// so new entries go at the end.
var Defaults = []Seed{
	{Slug: "fiction", Names: map[string]string{"en": "Fiction", "ru": "Художественная литература", "de": "Belletristik", "es": "Ficción"}},
	{Slug: "fantasy", Names: map[string]string{"en": "Fantasy", "ru": "Фэнтези", "de": "Fantasy", "es": "Fantasía"}},
	{Slug: "science-fiction", Names: map[string]string{"en": "Science Fiction", "ru": "Научная фантастика", "de": "Science-Fiction", "es": "Ciencia ficción"}},
	{Slug: "mystery-thriller", Names: map[string]string{"en": "Mystery & Thriller", "ru": "Детектив и триллер", "de": "Krimi & Thriller", "es": "Misterio y suspense"}},
	{Slug: "romance", Names: map[string]string{"en": "Romance", "ru": "Любовный роман", "de": "Liebesroman", "es": "Romántica"}},
	{Slug: "horror", Names: map[string]string{"en": "Horror", "ru": "Ужасы", "de": "Horror", "es": "Terror"}},
	{Slug: "literary-fiction", Names: map[string]string{"en": "Literary Fiction", "ru": "Современная проза", "de": "Literarische Fiktion", "es": "Ficción literaria"}},
	{Slug: "historical-fiction", Names: map[string]string{"en": "Historical Fiction", "ru": "Исторический роман", "de": "Historischer Roman", "es": "Novela histórica"}},
	{Slug: "adventure", Names: map[string]string{"en": "Adventure", "ru": "Приключения", "de": "Abenteuer", "es": "Aventura"}},
	{Slug: "humor", Names: map[string]string{"en": "Humor", "ru": "Юмор", "de": "Humor", "es": "Humor"}},
	{Slug: "non-fiction", Names: map[string]string{"en": "Non-Fiction", "ru": "Нон-фикшн", "de": "Sachbuch", "es": "No ficción"}},
	{Slug: "biography-memoir", Names: map[string]string{"en": "Biography & Memoir", "ru": "Биографии и мемуары", "de": "Biografie & Memoiren", "es": "Biografía y memorias"}},
	{Slug: "self-help", Names: map[string]string{"en": "Self-Help", "ru": "Саморазвитие", "de": "Selbsthilfe", "es": "Autoayuda"}},
	{Slug: "business-finance", Names: map[string]string{"en": "Business & Finance", "ru": "Бизнес и финансы", "de": "Wirtschaft & Finanzen", "es": "Negocios y finanzas"}},
	{Slug: "history", Names: map[string]string{"en": "History", "ru": "История", "de": "Geschichte", "es": "Historia"}},
	{Slug: "science-nature", Names: map[string]string{"en": "Science & Nature", "ru": "Наука и природа", "de": "Wissenschaft & Natur", "es": "Ciencia y naturaleza"}},
	{Slug: "philosophy", Names: map[string]string{"en": "Philosophy", "ru": "Философия", "de": "Philosophie", "es": "Filosofía"}},
	{Slug: "poetry", Names: map[string]string{"en": "Poetry", "ru": "Поэзия", "de": "Lyrik", "es": "Poesía"}},
	{Slug: "young-adult", Names: map[string]string{"en": "Young Adult", "ru": "Подростковая литература", "de": "Jugendbuch", "es": "Juvenil"}},
	{Slug: "children", Names: map[string]string{"en": "Children's", "ru": "Детская литература", "de": "Kinderbuch", "es": "Infantil"}},
}
