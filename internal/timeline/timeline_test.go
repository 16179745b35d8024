package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/costar/internal/domain"
)

func movie(id int64, title string, year int) domain.MovieCredit {
	return domain.MovieCredit{ID: id, Title: title, Year: year}
}

func dated(id int64, title, date string) domain.MovieCredit {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return domain.MovieCredit{ID: id, Title: title, ReleaseDate: &d, Year: d.Year()}
}

func ids(movies []domain.MovieCredit) []int64 {
	out := make([]int64, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func TestBuild_Scenario(t *testing.T) {
	actor1 := []domain.MovieCredit{movie(1, "X", 2010), movie(2, "Y", 2012)}
	actor2 := []domain.MovieCredit{movie(2, "Y", 2012), movie(3, "Z", 2012)}

	tl := Build(actor1, actor2, "Alice", "Bob")

	assert.Equal(t, []int64{2}, ids(tl.SharedMovies))
	assert.Equal(t, []int{2012, 2010}, tl.Years)

	y2012 := tl.ProcessedMovies[2012]
	require.Len(t, y2012, 2)

	assert.Equal(t, domain.ItemShared, y2012[0].Type)
	require.Len(t, y2012[0].Movies, 2)
	assert.Equal(t, int64(2), y2012[0].MovieID())
	assert.Equal(t, domain.SideLeft, y2012[0].Movies[0].Side)
	assert.Equal(t, "Alice", y2012[0].Movies[0].ActorName)
	assert.Equal(t, domain.SideRight, y2012[0].Movies[1].Side)
	assert.Equal(t, "Bob", y2012[0].Movies[1].ActorName)

	assert.Equal(t, domain.ItemSingle, y2012[1].Type)
	require.NotNil(t, y2012[1].Movie)
	assert.Equal(t, int64(3), y2012[1].Movie.Movie.ID)
	assert.Equal(t, domain.SideRight, y2012[1].Movie.Side)
	assert.False(t, y2012[1].Movie.IsShared)

	y2010 := tl.ProcessedMovies[2010]
	require.Len(t, y2010, 1)
	assert.Equal(t, domain.ItemSingle, y2010[0].Type)
	assert.Equal(t, int64(1), y2010[0].Movie.Movie.ID)
	assert.Equal(t, domain.SideLeft, y2010[0].Movie.Side)
}

func TestBuild_SelfCompare(t *testing.T) {
	movies := []domain.MovieCredit{movie(5, "Solo", 2000)}

	tl := Build(movies, movies, "Same", "Same")

	assert.Equal(t, []int64{5}, ids(tl.SharedMovies))
	assert.Equal(t, []int{2000}, tl.Years)
	require.Len(t, tl.ProcessedMovies[2000], 1)
	item := tl.ProcessedMovies[2000][0]
	assert.Equal(t, domain.ItemShared, item.Type)
	require.Len(t, item.Movies, 2)
	assert.True(t, item.Movies[0].IsShared)
	assert.True(t, item.Movies[1].IsShared)
}

func TestBuild_OneSideEmpty(t *testing.T) {
	actor2 := []domain.MovieCredit{movie(1, "A", 2001), movie(2, "B", 1999)}

	tl := Build(nil, actor2, "Nobody", "Somebody")

	assert.Empty(t, tl.SharedMovies)
	assert.NotNil(t, tl.SharedMovies)
	assert.Equal(t, []int{2001, 1999}, tl.Years)
	for _, y := range tl.Years {
		for _, item := range tl.ProcessedMovies[y] {
			assert.Equal(t, domain.ItemSingle, item.Type)
			assert.Equal(t, domain.SideRight, item.Movie.Side)
		}
	}
}

func TestBuild_BothEmpty(t *testing.T) {
	tl := Build(nil, nil, "A", "B")
	assert.Empty(t, tl.Years)
	assert.Empty(t, tl.SharedMovies)
	assert.Empty(t, tl.ProcessedMovies)
}

func TestBuild_IntraYearOrder(t *testing.T) {
	actor1 := []domain.MovieCredit{
		dated(10, "December", "2015-12-01"),
		dated(11, "March", "2015-03-01"),
		dated(12, "Shared", "2015-06-01"),
	}
	actor2 := []domain.MovieCredit{
		dated(12, "Shared", "2015-06-01"),
		dated(13, "January", "2015-01-15"),
		movie(14, "Undated", 2015),
	}

	tl := Build(actor1, actor2, "L", "R")
	items := tl.ProcessedMovies[2015]

	var order []int64
	for _, item := range items {
		order = append(order, item.MovieID())
	}
	// Undated sorts first, then by release date; the shared group takes the slot of its first entry.
	assert.Equal(t, []int64{14, 13, 11, 12, 10}, order)
	assert.Equal(t, domain.ItemShared, items[3].Type)
}

func TestBuild_SharedAcrossYearsUsesGlobalSet(t *testing.T) {
	// Same ID, release years disagree between the two lists.
	actor1 := []domain.MovieCredit{movie(7, "Festival cut", 2019)}
	actor2 := []domain.MovieCredit{movie(7, "Wide release", 2020)}

	tl := Build(actor1, actor2, "L", "R")

	assert.Equal(t, []int{2020, 2019}, tl.Years)
	for _, y := range tl.Years {
		require.Len(t, tl.ProcessedMovies[y], 1)
		item := tl.ProcessedMovies[y][0]
		assert.Equal(t, domain.ItemShared, item.Type)
		assert.Len(t, item.Movies, 1)
		assert.True(t, item.Movies[0].IsShared)
	}
}

func TestBuild_SkipsYearless(t *testing.T) {
	tl := Build([]domain.MovieCredit{movie(1, "No year", 0)}, nil, "A", "B")
	assert.Empty(t, tl.Years)
}

func TestBuild_DuplicateIDOverGroups(t *testing.T) {
	// Upstream duplicates one credit for actor1. Every entry with the ID is
	// pulled into the one shared group.
	actor1 := []domain.MovieCredit{movie(9, "Dup", 2005), movie(9, "Dup", 2005)}
	actor2 := []domain.MovieCredit{movie(9, "Dup", 2005)}

	tl := Build(actor1, actor2, "L", "R")

	require.Len(t, tl.ProcessedMovies[2005], 1)
	group := tl.ProcessedMovies[2005][0]
	assert.Equal(t, domain.ItemShared, group.Type)
	assert.Len(t, group.Movies, 3)
}

func TestBuild_SymmetricShared(t *testing.T) {
	a := []domain.MovieCredit{movie(1, "A", 2000), movie(2, "B", 2001), movie(3, "C", 2002)}
	b := []domain.MovieCredit{movie(3, "C", 2002), movie(4, "D", 2003), movie(1, "A", 2000)}

	ab := Build(a, b, "A", "B")
	ba := Build(b, a, "B", "A")

	assert.ElementsMatch(t, ids(ab.SharedMovies), ids(ba.SharedMovies))
	assert.Equal(t, ab.Years, ba.Years)
}

func TestBuild_Properties(t *testing.T) {
	a := []domain.MovieCredit{
		dated(1, "a", "2020-05-01"), dated(2, "b", "2020-01-01"), dated(3, "c", "2018-07-04"),
		dated(4, "d", "2011-11-11"), dated(5, "e", "2011-02-02"),
	}
	b := []domain.MovieCredit{
		dated(2, "b", "2020-01-01"), dated(6, "f", "2019-03-03"), dated(4, "d", "2011-11-11"),
		dated(7, "g", "2005-05-05"),
	}

	tl := Build(a, b, "A", "B")

	t.Run("years strictly descending", func(t *testing.T) {
		for i := 1; i < len(tl.Years); i++ {
			assert.Greater(t, tl.Years[i-1], tl.Years[i])
		}
	})

	t.Run("every input year present", func(t *testing.T) {
		want := map[int]bool{}
		for _, m := range append(append([]domain.MovieCredit{}, a...), b...) {
			want[m.Year] = true
		}
		assert.Len(t, tl.Years, len(want))
		for _, y := range tl.Years {
			assert.True(t, want[y], y)
			assert.NotEmpty(t, tl.ProcessedMovies[y])
		}
	})

	t.Run("every credit placed exactly once", func(t *testing.T) {
		type placed struct {
			side domain.Side
			id   int64
		}
		seen := map[placed]int{}
		for _, y := range tl.Years {
			for _, item := range tl.ProcessedMovies[y] {
				for _, e := range item.Entries() {
					seen[placed{e.Side, e.Movie.ID}]++
				}
			}
		}
		assert.Len(t, seen, len(a)+len(b))
		for k, n := range seen {
			assert.Equal(t, 1, n, k)
		}
	})

	t.Run("shared set", func(t *testing.T) {
		assert.Equal(t, []int64{2, 4}, ids(tl.SharedMovies))
	})
}

func TestSharedMovies(t *testing.T) {
	got := SharedMovies(
		[]domain.MovieCredit{movie(1, "", 2000), movie(2, "", 2000)},
		[]domain.MovieCredit{movie(2, "", 2000), movie(3, "", 2000)},
	)
	assert.Equal(t, []int64{2}, ids(got))
}
