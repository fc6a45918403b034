package movierental

import (
	"context"
	"fmt"
	"iter"
)

// Movie is a row of the Movies table.
type Movie struct {
	ID          int64
	Title       string
	ReleaseYear int
	Genre       string
	Director    string
}

// String formats the movie the way the show command prints it.
func (m Movie) String() string {
	return fmt.Sprintf("ID: %d, Title: %s, Year: %d, Genre: %s, Director: %s",
		m.ID, m.Title, m.ReleaseYear, m.Genre, m.Director)
}

const insertMovieSql = `
    INSERT INTO Movies (title, release_year, genre, director)
    VALUES ($1, $2, $3, $4)
    RETURNING movie_id;`

const listMoviesSql = `
    SELECT movie_id, title, release_year, genre, director
    FROM Movies
    ORDER BY movie_id;`

// InsertMovie adds a movie and returns the id the database assigned to it.
func (c *DB) InsertMovie(ctx context.Context, title string, year int, genre, director string) (int64, error) {
	res, err := c.Query(ctx, insertMovieSql, title, year, genre, director)
	if err != nil {
		return 0, wrapErr("insert movie", err)
	}
	if len(res.Rows) == 0 {
		return 0, &DatabaseError{Op: "insert movie", Kind: KindStatement, Err: fmt.Errorf("no id returned")}
	}
	id, err := asInt64(res.Rows[0]["movie_id"])
	if err != nil {
		return 0, &DatabaseError{Op: "insert movie", Kind: KindStatement, Err: err}
	}
	return id, nil
}

// ListMovies yields every movie in id order. The sequence reads straight
// from the open result set and can be ranged over once.
func (c *DB) ListMovies(ctx context.Context) iter.Seq2[Movie, error] {
	rows := c.Stream(ctx, listMoviesSql)
	return func(yield func(Movie, error) bool) {
		for row, err := range rows {
			if err != nil {
				yield(Movie{}, wrapErr("list movies", err))
				return
			}
			m, err := decodeMovie(row)
			if err != nil {
				yield(Movie{}, &DatabaseError{Op: "list movies", Kind: KindStatement, Err: err})
				return
			}
			if !yield(m, nil) {
				return
			}
		}
	}
}

func decodeMovie(row Row) (Movie, error) {
	var (
		m   Movie
		err error
	)
	if m.ID, err = asInt64(row["movie_id"]); err != nil {
		return m, fmt.Errorf("movie_id: %w", err)
	}
	year, err := asInt64(row["release_year"])
	if err != nil {
		return m, fmt.Errorf("release_year: %w", err)
	}
	m.ReleaseYear = int(year)
	if m.Title, err = asString(row["title"]); err != nil {
		return m, fmt.Errorf("title: %w", err)
	}
	if m.Genre, err = asString(row["genre"]); err != nil {
		return m, fmt.Errorf("genre: %w", err)
	}
	if m.Director, err = asString(row["director"]); err != nil {
		return m, fmt.Errorf("director: %w", err)
	}
	return m, nil
}
