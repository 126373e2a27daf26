package choice_test

import (
	"testing"

	"github.com/amonks/musik/choice"
	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	set := choice.New("music", "movie", "podcast")
	assert.True(t, set.Has("movie"))
	assert.False(t, set.Has("Movie"))
	assert.False(t, set.Has(""))
	assert.Equal(t, []string{"music", "movie", "podcast"}, set.Options())
	assert.Equal(t, "music, movie, podcast", set.String())
}

func TestOptionsIsACopy(t *testing.T) {
	set := choice.New("a", "b")
	opts := set.Options()
	opts[0] = "z"
	assert.True(t, set.Has("a"))
	assert.Equal(t, []string{"a", "b"}, set.Options())
}

func TestFlag(t *testing.T) {
	flag := choice.New("all", "yes", "no").Flag("all")
	assert.Equal(t, "all", flag.Value())

	assert.NoError(t, flag.Set(" yes "))
	assert.Equal(t, "yes", flag.Value())
	assert.Equal(t, "yes", flag.String())

	assert.EqualError(t, flag.Set("maybe"), "unsupported value 'maybe' (want one of all, yes, no)")
	assert.Equal(t, "yes", flag.Value())
}
