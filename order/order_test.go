package order_test

import (
	"testing"
	"time"

	"github.com/amonks/musik/data"
	"github.com/amonks/musik/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priced(id int64, minor int64) data.Track {
	return data.Track{ID: id, TrackPriceMinor: &minor}
}

func dated(id int64, date string) data.Track {
	if date == "" {
		return data.Track{ID: id}
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return data.Track{ID: id, ReleaseDate: &t}
}

func TestSortByPrice(t *testing.T) {
	tracks := []data.Track{priced(1, 199), priced(2, 99), priced(3, 99)}
	sorted := order.Sort(tracks, order.Price)
	assert.Equal(t, []int64{2, 3, 1}, data.IDs(sorted))

	again := order.Sort(sorted, order.Price)
	assert.Equal(t, data.IDs(sorted), data.IDs(again))
}

func TestSortByPriceIsStable(t *testing.T) {
	tracks := []data.Track{priced(2, 99), priced(1, 99)}
	assert.Equal(t, []int64{2, 1}, data.IDs(order.Sort(tracks, order.Price)))
}

func TestSortByPriceFallsBack(t *testing.T) {
	collection := int64(50)
	tracks := []data.Track{
		priced(1, 100),
		{ID: 2},
		{ID: 3, CollectionPriceMinor: &collection},
	}
	assert.Equal(t, []int64{2, 3, 1}, data.IDs(order.Sort(tracks, order.Price)))
}

func TestSortByReleaseDate(t *testing.T) {
	tracks := []data.Track{dated(1, ""), dated(2, "2020-01-01"), dated(3, "2023-01-01")}
	assert.Equal(t, []int64{3, 2, 1}, data.IDs(order.Sort(tracks, order.ReleaseDate)))
}

func TestSortByReleaseDateNilsKeepOrder(t *testing.T) {
	tracks := []data.Track{dated(4, ""), dated(1, ""), dated(2, "2020-01-01"), dated(3, "2020-01-01")}
	sorted := order.Sort(tracks, order.ReleaseDate)
	assert.Equal(t, []int64{2, 3, 4, 1}, data.IDs(sorted))
	assert.Equal(t, data.IDs(sorted), data.IDs(order.Sort(sorted, order.ReleaseDate)))
}

func TestSortNone(t *testing.T) {
	tracks := []data.Track{priced(1, 199), priced(2, 99), priced(3, 99)}
	assert.Equal(t, []int64{1, 2, 3}, data.IDs(order.Sort(tracks, order.None)))
}

func TestSortDoesNotMutate(t *testing.T) {
	tracks := []data.Track{priced(1, 199), priced(2, 99), priced(3, 99)}
	order.Sort(tracks, order.Price)
	assert.Equal(t, []int64{1, 2, 3}, data.IDs(tracks))
}

func TestSortEmpty(t *testing.T) {
	assert.Empty(t, order.Sort(nil, order.Price))
}

func TestParseKey(t *testing.T) {
	for in, want := range map[string]order.Key{
		"":            order.None,
		"none":        order.None,
		"releaseDate": order.ReleaseDate,
		"price":       order.Price,
	} {
		got, err := order.ParseKey(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := order.ParseKey("popularity")
	assert.Error(t, err)
}
