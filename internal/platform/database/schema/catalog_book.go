package schema

// CatalogBookTable represents the 'catalog.book' table
type CatalogBookTable struct {
	Table           string
	ID              string
	Title           string
	Author          string
	Description     string
	CoverURL        string
	Genres          string
	PublicationDate string
	Rating          string
	ISBN            string
	CreatedAt       string
	UserID          string
}

// CatalogBook is the schema definition for catalog.book
var CatalogBook = CatalogBookTable{
	Table:           "catalog.book",
	ID:              "id",
	Title:           "title",
	Author:          "author",
	Description:     "description",
	CoverURL:        "coverurl",
	Genres:          "genres",
	PublicationDate: "publicationdate",
	Rating:          "rating",
	ISBN:            "isbn",
	CreatedAt:       "createdat",
	UserID:          "userid",
}

// Columns returns all standard column names
func (t CatalogBookTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Author, t.Description, t.CoverURL, t.Genres,
		t.PublicationDate, t.Rating, t.ISBN, t.CreatedAt, t.UserID,
	}
}
