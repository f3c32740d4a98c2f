package contentmodule

import (
	"github.com/streamvault/streamvault/internal/database"
)

// DemoCatalog returns the titles the demo deployment ships with. IDs are
// fixed so the front end's deep links stay stable across restarts.
func DemoCatalog() []database.Movie {
	return []database.Movie{
		{
			ID:           "1",
			Title:        "Inception",
			Description:  "A thief who steals corporate secrets through the use of dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O.",
			ThumbnailURL: "https://images.unsplash.com/photo-1542204165-65bf26472b9b?auto=format&fit=crop&w=600&q=80",
			CoverURL:     "https://images.unsplash.com/photo-1536440136628-849c177e76a1?auto=format&fit=crop&w=1000&q=80",
			Year:         2010,
			Duration:     "2h 28m",
			Genres:       database.StringList{"Action", "Sci-Fi", "Thriller"},
			Rating:       "PG-13",
			IsFeatured:   true,
			TrailerURL:   "https://www.youtube.com/embed/YoHD9XEInc0",
		},
		{
			ID:           "2",
			Title:        "The Matrix",
			Description:  "A computer hacker learns from mysterious rebels about the true nature of his reality and his role in the war against its controllers.",
			ThumbnailURL: "https://images.unsplash.com/photo-1605810230434-7631ac76ec81?auto=format&fit=crop&w=600&q=80",
			CoverURL:     "https://images.unsplash.com/photo-1592495479372-82b580d9410c?auto=format&fit=crop&w=1000&q=80",
			Year:         1999,
			Duration:     "2h 16m",
			Genres:       database.StringList{"Action", "Sci-Fi"},
			Rating:       "R",
		},
		{
			ID:           "3",
			Title:        "Interstellar",
			Description:  "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
			ThumbnailURL: "https://images.unsplash.com/photo-1419242902214-272b3f66ee7a?auto=format&fit=crop&w=600&q=80",
			CoverURL:     "https://images.unsplash.com/photo-1501862700950-18382cd41497?auto=format&fit=crop&w=1000&q=80",
			Year:         2014,
			Duration:     "2h 49m",
			Genres:       database.StringList{"Adventure", "Drama", "Sci-Fi"},
			Rating:       "PG-13",
		},
		{
			ID:           "4",
			Title:        "The Dark Knight",
			Description:  "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
			ThumbnailURL: "https://images.unsplash.com/photo-1531259683007-016a7b628fc3?auto=format&fit=crop&w=600&q=80",
			CoverURL:     "https://images.unsplash.com/photo-1514539079130-25950c84af65?auto=format&fit=crop&w=1000&q=80",
			Year:         2008,
			Duration:     "2h 32m",
			Genres:       database.StringList{"Action", "Crime", "Drama"},
			Rating:       "PG-13",
		},
		{
			ID:           "5",
			Title:        "Pulp Fiction",
			Description:  "The lives of two mob hitmen, a boxer, a gangster and his wife, and a pair of diner bandits intertwine in four tales of violence and redemption.",
			ThumbnailURL: "https://images.unsplash.com/photo-1598899134739-24c46f58b8c0?auto=format&fit=crop&w=600&q=80",
			CoverURL:     "https://images.unsplash.com/photo-1626814026160-2237a95fc5a0?auto=format&fit=crop&w=1000&q=80",
			Year:         1994,
			Duration:     "2h 34m",
			Genres:       database.StringList{"Crime", "Drama"},
			Rating:       "R",
		},
		{
			ID:           "6",
			Title:        "The Shawshank Redemption",
			Description:  "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
			ThumbnailURL: "https://images.unsplash.com/photo-1579547945413-497e1b99dac0?auto=format&fit=crop&w=600&q=80",
			CoverURL:     "https://images.unsplash.com/photo-1486693128850-a77436e7ba3c?auto=format&fit=crop&w=1000&q=80",
			Year:         1994,
			Duration:     "2h 22m",
			Genres:       database.StringList{"Drama"},
			Rating:       "R",
		},
		{
			ID:           "7",
			Title:        "Fight Club",
			Description:  "An insomniac office worker and a devil-may-care soapmaker form an underground fight club that evolves into something much, much more.",
			ThumbnailURL: "https://images.unsplash.com/photo-1528092744838-b91de0a10615?auto=format&fit=crop&w=600&q=80",
			CoverURL:     "https://images.unsplash.com/photo-1526430733783-a03e0053b27a?auto=format&fit=crop&w=1000&q=80",
			Year:         1999,
			Duration:     "2h 19m",
			Genres:       database.StringList{"Drama"},
			Rating:       "R",
		},
		{
			ID:           "8",
			Title:        "Forrest Gump",
			Description:  "The presidencies of Kennedy and Johnson, the events of Vietnam, Watergate and other historical events unfold from the perspective of an Alabama man with an IQ of 75, whose only desire is to be reunited with his childhood sweetheart.",
			ThumbnailURL: "https://images.unsplash.com/photo-1519864967-22b37f31a770?auto=format&fit=crop&w=600&q=80",
			CoverURL:     "https://images.unsplash.com/photo-1508336511136-e4ef634b7008?auto=format&fit=crop&w=1000&q=80",
			Year:         1994,
			Duration:     "2h 22m",
			Genres:       database.StringList{"Drama", "Romance"},
			Rating:       "PG-13",
		},
	}
}
