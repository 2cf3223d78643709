package book

// Samples is the starter catalog loaded by cmd/seed and by the in-memory
// store. Ids are stable so re-seeding is a no-op.
func Samples() []Book {
	return []Book{
		{
			ID:            "B001-pride-and-prejudice",
			Title:         "Pride and Prejudice",
			Author:        "Jane Austen",
			CoverImageURL: "https://covers.openlibrary.org/b/id/8091016-L.jpg",
			PageCount:     432,
			Publisher:     "T. Egerton",
			Synopsis:      "Elizabeth Bennet navigates manners, marriage and misjudgement in Regency England.",
		},
		{
			ID:            "B002-moby-dick",
			Title:         "Moby-Dick",
			Author:        "Herman Melville",
			CoverImageURL: "https://covers.openlibrary.org/b/id/7222246-L.jpg",
			PageCount:     635,
			Publisher:     "Harper & Brothers",
			Synopsis:      "Captain Ahab hunts the white whale that took his leg.",
		},
		{
			ID:            "B003-frankenstein",
			Title:         "Frankenstein",
			Author:        "Mary Shelley",
			CoverImageURL: "https://covers.openlibrary.org/b/id/6788811-L.jpg",
			PageCount:     280,
			Publisher:     "Lackington, Hughes, Harding, Mavor & Jones",
			Synopsis:      "A young scientist creates a living being and flees from what he has made.",
		},
		{
			ID:            "B004-great-expectations",
			Title:         "Great Expectations",
			Author:        "Charles Dickens",
			CoverImageURL: "https://covers.openlibrary.org/b/id/8281996-L.jpg",
			PageCount:     544,
			Publisher:     "Chapman & Hall",
			Synopsis:      "The orphan Pip rises from the marshes of Kent into London society.",
		},
		{
			ID:            "B005-war-and-peace",
			Title:         "War and Peace",
			Author:        "Leo Tolstoy",
			CoverImageURL: "https://covers.openlibrary.org/b/id/7222254-L.jpg",
			PageCount:     1225,
			Publisher:     "The Russian Messenger",
			Synopsis:      "Five aristocratic families live through Napoleon's invasion of Russia.",
		},
		{
			ID:            "B006-the-time-machine",
			Title:         "The Time Machine",
			Author:        "H. G. Wells",
			CoverImageURL: "https://covers.openlibrary.org/b/id/9009316-L.jpg",
			PageCount:     118,
			Publisher:     "William Heinemann",
			Synopsis:      "A Victorian inventor travels to the year 802,701 and finds humanity divided.",
		},
		{
			ID:            "B007-dracula",
			Title:         "Dracula",
			Author:        "Bram Stoker",
			CoverImageURL: "https://covers.openlibrary.org/b/id/8231856-L.jpg",
			PageCount:     418,
			Publisher:     "Archibald Constable and Company",
			Synopsis:      "Letters and diaries chart the Count's move from Transylvania to England.",
		},
		{
			ID:            "B008-middlemarch",
			Title:         "Middlemarch",
			Author:        "George Eliot",
			CoverImageURL: "https://covers.openlibrary.org/b/id/8235119-L.jpg",
			PageCount:     880,
			Publisher:     "William Blackwood and Sons",
			Synopsis:      "Lives and ambitions intertwine in a provincial English town.",
		},
	}
}
